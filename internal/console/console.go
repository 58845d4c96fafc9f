package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jiralog/jiralog/internal/model"
)

// commentPreviewLen caps the comment preview printed under each row.
const commentPreviewLen = 100

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Printer renders run progress and the summary. Everything goes to a
// single writer so tests can capture the output.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Header prints the tool banner.
func (p *Printer) Header() {
	title := "Jira Timesheet Logger"
	fmt.Fprintln(p.out, titleStyle.Render(title))
	fmt.Fprintln(p.out, titleStyle.Render(strings.Repeat("=", len(title))))
}

// DryRunBanner announces that no changes will be made.
func (p *Printer) DryRunBanner() {
	fmt.Fprintln(p.out, noticeStyle.Render("DRY RUN MODE - No actual changes will be made"))
}

// Config echoes the target site and account. The API token is never
// printed.
func (p *Printer) Config(domain, email string) {
	fmt.Fprintf(p.out, "Jira Domain: %s\n", accentStyle.Render(domain))
	fmt.Fprintf(p.out, "Email: %s\n", accentStyle.Render(email))
	fmt.Fprintln(p.out)
}

// ProcessingFile names the CSV being read.
func (p *Printer) ProcessingFile(path string) {
	fmt.Fprintf(p.out, "Processing CSV file: %s\n", accentStyle.Render(path))
	fmt.Fprintln(p.out)
}

// Entry prints the ticket / hours / date line and the comment preview.
func (p *Printer) Entry(e model.Entry) {
	fmt.Fprintf(p.out, "  %s - %sh - %s\n",
		accentStyle.Render(e.Ticket), FormatHours(e.Hours), e.Date.Format("2006-01-02"))
	fmt.Fprintf(p.out, "    Comment: %s\n", truncate(e.Description, commentPreviewLen))
}

// Preview prints the dry-run line for a row.
func (p *Printer) Preview(hours float64) {
	fmt.Fprintf(p.out, "    %s\n",
		noticeStyle.Render(fmt.Sprintf("[DRY RUN] Would log %s hours", FormatHours(hours))))
}

// RowSuccess prints the per-row success line.
func (p *Printer) RowSuccess() {
	fmt.Fprintf(p.out, "    %s\n", successStyle.Render("✓ Successfully logged"))
}

// RowFailure prints a per-row failure with an optional detail line,
// typically the response body excerpt.
func (p *Printer) RowFailure(msg, detail string) {
	fmt.Fprintf(p.out, "    %s\n", failureStyle.Render("✗ "+msg))
	if detail != "" {
		fmt.Fprintf(p.out, "    %s\n", failureStyle.Render("Error: "+detail))
	}
}

// RowInvalid prints a validation failure for a row.
func (p *Printer) RowInvalid(line int, reason string) {
	fmt.Fprintf(p.out, "  %s\n", failureStyle.Render(fmt.Sprintf("✗ Row %d: %s", line, reason)))
}

// Warnf prints an indented warning, e.g. for future-dated rows.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintf(p.out, "  %s\n", noticeStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Noticef prints an unindented notice, e.g. when the row limit is hit.
func (p *Printer) Noticef(format string, args ...any) {
	fmt.Fprintln(p.out, noticeStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints a top-level error line.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintln(p.out, failureStyle.Render("Error: "+fmt.Sprintf(format, args...)))
}

// Hint prints a plain follow-up line under an error.
func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.out)
}

// Summary prints the end-of-run counters. The previewed and failed
// lines only appear when non-zero.
func (p *Printer) Summary(processed, succeeded, failed, previewed int) {
	fmt.Fprintln(p.out, accentStyle.Render("Summary:"))
	fmt.Fprintf(p.out, "  Total entries processed: %d\n", processed)
	fmt.Fprintf(p.out, "  %s\n", successStyle.Render(fmt.Sprintf("Successfully logged: %d", succeeded)))
	if previewed > 0 {
		fmt.Fprintf(p.out, "  %s\n", noticeStyle.Render(fmt.Sprintf("Previewed: %d", previewed)))
	}
	if failed > 0 {
		fmt.Fprintf(p.out, "  %s\n", failureStyle.Render(fmt.Sprintf("Failed: %d", failed)))
	}
}

// DryRunTrailer reminds that nothing was submitted.
func (p *Printer) DryRunTrailer() {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, noticeStyle.Render("This was a dry run. To actually log the entries, run without --dry-run"))
}

// FormatHours renders an hours value the way it appears in row lines:
// trailing zeros dropped, so 2.50 prints as 2.5 and 1.0 as 1.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'g', -1, 64)
}

// truncate shortens s to at most n runes, appending an ellipsis marker
// when anything was cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
