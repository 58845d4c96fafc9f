package timesheet

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jiralog/jiralog/internal/model"
)

const dateLayout = "2006-01-02"

// maxHoursPerDay is the most a single row may log.
const maxHoursPerDay = 24

// ticketPattern matches Jira issue keys: a letter-only project prefix,
// a dash and a numeric issue number.
var ticketPattern = regexp.MustCompile(`^[A-Za-z]+-[0-9]+$`)

// RowError is a validation failure for a single row.
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}

// Validate checks a raw row and produces a submission-ready entry.
// Checks run in column order (date, ticket, hours) and the first
// failure wins. The ticket key is uppercased; a blank description
// defaults to "Work on <ticket>".
func Validate(row RawRow) (model.Entry, error) {
	date, err := parseDate(row.Date)
	if err != nil {
		return model.Entry{}, &RowError{Line: row.Line, Reason: "invalid date format"}
	}

	if !ticketPattern.MatchString(row.Ticket) {
		return model.Entry{}, &RowError{Line: row.Line, Reason: "invalid ticket format"}
	}
	ticket := strings.ToUpper(row.Ticket)

	hours, err := strconv.ParseFloat(row.Hours, 64)
	if err != nil || math.IsNaN(hours) {
		return model.Entry{}, &RowError{Line: row.Line, Reason: "invalid hours format"}
	}
	if hours <= 0 {
		return model.Entry{}, &RowError{Line: row.Line, Reason: "hours must be positive"}
	}
	if hours > maxHoursPerDay {
		return model.Entry{}, &RowError{Line: row.Line, Reason: "hours exceeds maximum"}
	}

	description := row.Description
	if description == "" {
		description = "Work on " + ticket
	}

	return model.Entry{
		Date:        date,
		Ticket:      ticket,
		Description: description,
		Hours:       hours,
		Line:        row.Line,
	}, nil
}

// parseDate accepts only zero-padded YYYY-MM-DD dates. time.Parse alone
// is lenient about unpadded components, hence the round-trip check.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(dateLayout) != s {
		return time.Time{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", s)
	}
	return t, nil
}
