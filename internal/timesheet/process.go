package timesheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jiralog/jiralog/internal/console"
	"github.com/jiralog/jiralog/internal/jira"
	"github.com/jiralog/jiralog/internal/model"
)

// Submitter creates worklogs on the issue tracker. *jira.Client
// implements it.
type Submitter interface {
	AddWorklog(ctx context.Context, ticket string, wl jira.Worklog) (jira.WorklogCreated, error)
}

// Options configures a processing run.
type Options struct {
	CSVPath string
	DryRun  bool
	// Limit caps the number of processed rows; 0 means no cap. Blank
	// rows do not count against it.
	Limit int
}

// Result aggregates one run. Outcomes holds one record per processed
// row, in file order.
type Result struct {
	Outcomes     []model.Outcome
	Processed    int
	Succeeded    int
	Failed       int
	Previewed    int
	SkippedBlank int
}

// Processor drives a timesheet run: read, validate, submit, summarize.
// Rows are handled strictly one after another; a failed row never stops
// the run.
type Processor struct {
	submitter Submitter
	printer   *console.Printer
	logger    *log.Logger
}

func NewProcessor(submitter Submitter, printer *console.Printer, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Processor{submitter: submitter, printer: printer, logger: logger}
}

// Run processes the CSV at opts.CSVPath row by row and prints the
// summary. File and header problems fail the whole run before any row
// is handled; everything after that is recorded per row.
func (p *Processor) Run(ctx context.Context, opts Options) (Result, error) {
	var result Result

	reader, err := Open(opts.CSVPath)
	if err != nil {
		return result, err
	}
	defer reader.Close()

	p.printer.ProcessingFile(opts.CSVPath)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, err
		}

		if row.Blank() {
			p.logger.Debug("skipping blank row", "line", row.Line)
			result.SkippedBlank++
			continue
		}
		if opts.Limit > 0 && result.Processed >= opts.Limit {
			p.printer.Noticef("Reached limit of %d entries", opts.Limit)
			break
		}

		result.Processed++
		outcome := p.processRow(ctx, row, opts.DryRun, today)
		result.Outcomes = append(result.Outcomes, outcome)
		switch {
		case outcome.Kind == model.OutcomePreview:
			result.Previewed++
		case outcome.Kind.Failed():
			result.Failed++
		default:
			result.Succeeded++
		}
		p.printer.Blank()
	}

	p.printer.Summary(result.Processed, result.Succeeded, result.Failed, result.Previewed)
	return result, nil
}

// processRow validates and, outside dry-run, submits one row. All
// failure modes collapse into the returned outcome; nothing escalates.
func (p *Processor) processRow(ctx context.Context, row RawRow, dryRun bool, today time.Time) model.Outcome {
	entry, err := Validate(row)
	if err != nil {
		reason := err.Error()
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			reason = rowErr.Reason
		}
		p.logger.Debug("row failed validation", "line", row.Line, "reason", reason)
		p.printer.RowInvalid(row.Line, reason)
		return model.Outcome{Line: row.Line, Ticket: row.Ticket, Kind: model.OutcomeValidation, Message: reason}
	}

	if entry.Date.After(today) {
		p.printer.Warnf("Warning: Future date detected: %s", entry.Date.Format(dateLayout))
	}
	p.printer.Entry(entry)

	if dryRun {
		p.printer.Preview(entry.Hours)
		return model.Outcome{Line: entry.Line, Ticket: entry.Ticket, Kind: model.OutcomePreview, Message: "dry run"}
	}

	created, err := p.submitter.AddWorklog(ctx, entry.Ticket, jira.NewWorklog(entry))
	if err != nil {
		outcome, detail := classifyFailure(entry, err)
		p.logger.Debug("worklog rejected", "ticket", entry.Ticket, "status", outcome.StatusCode, "kind", outcome.Kind)
		p.printer.RowFailure(outcome.Message, detail)
		return outcome
	}

	p.logger.Debug("worklog accepted", "ticket", entry.Ticket, "id", created.ID, "status", created.StatusCode)
	p.printer.RowSuccess()
	return model.Outcome{
		Line:       entry.Line,
		Ticket:     entry.Ticket,
		Kind:       model.OutcomeSuccess,
		StatusCode: created.StatusCode,
		Message:    "logged",
	}
}

// classifyFailure maps a submission error onto an outcome plus the
// detail line shown under it. Transport errors carry no status code.
func classifyFailure(entry model.Entry, err error) (model.Outcome, string) {
	outcome := model.Outcome{Line: entry.Line, Ticket: entry.Ticket}

	var apiErr *jira.APIError
	if !errors.As(err, &apiErr) {
		outcome.Kind = model.OutcomeTransport
		outcome.Message = fmt.Sprintf("request failed: %v", err)
		return outcome, ""
	}

	outcome.StatusCode = apiErr.StatusCode
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		outcome.Kind = model.OutcomeAuth
		outcome.Message = fmt.Sprintf("authentication failed (status %d) - check JIRA_EMAIL and JIRA_API_TOKEN", apiErr.StatusCode)
	case http.StatusNotFound:
		outcome.Kind = model.OutcomeNotFound
		outcome.Message = fmt.Sprintf("ticket %s not found", entry.Ticket)
	case http.StatusTooManyRequests:
		outcome.Kind = model.OutcomeRateLimited
		outcome.Message = "rate limited by Jira (status 429)"
	default:
		outcome.Kind = model.OutcomeHTTP
		outcome.Message = fmt.Sprintf("failed to log worklog (status %d)", apiErr.StatusCode)
	}
	return outcome, apiErr.Body
}
