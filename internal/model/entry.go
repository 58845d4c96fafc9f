package model

import "time"

// Entry is a single validated timesheet row, ready for submission.
// Entries are only constructed by the row validator.
type Entry struct {
	Date        time.Time
	Ticket      string
	Description string
	Hours       float64
	Line        int
}

// OutcomeKind classifies what happened to one timesheet row.
type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomePreview     OutcomeKind = "preview"
	OutcomeValidation  OutcomeKind = "validation"
	OutcomeAuth        OutcomeKind = "auth"
	OutcomeNotFound    OutcomeKind = "not-found"
	OutcomeRateLimited OutcomeKind = "rate-limited"
	OutcomeHTTP        OutcomeKind = "http"
	OutcomeTransport   OutcomeKind = "transport"
)

// Failed reports whether the kind counts as a failed row.
func (k OutcomeKind) Failed() bool {
	switch k {
	case OutcomeSuccess, OutcomePreview:
		return false
	}
	return true
}

// Outcome records the result of one CSV row, in row order.
// StatusCode is zero for validation and transport outcomes.
type Outcome struct {
	Line       int
	Ticket     string
	Kind       OutcomeKind
	StatusCode int
	Message    string
}
