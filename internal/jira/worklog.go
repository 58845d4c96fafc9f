package jira

import (
	"math"
	"time"

	"github.com/jiralog/jiralog/internal/model"
)

const (
	// startedFormat is the timestamp layout the worklog endpoint expects,
	// e.g. "2024-01-15T09:00:00.000+0000".
	startedFormat = "2006-01-02T15:04:05.000-0700"
	// startHour is the fixed UTC time of day stamped on every worklog.
	startHour = 9
)

// Worklog is the request body for creating a worklog entry.
type Worklog struct {
	Started          string `json:"started"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
	Comment          ADFDoc `json:"comment"`
}

// ADFDoc is a minimal Atlassian Document Format document: the v3 API
// requires comments in this shape rather than plain strings.
type ADFDoc struct {
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Content []ADFNode `json:"content"`
}

// ADFNode is a node in an ADF document. Container nodes carry Content,
// leaf nodes carry Text.
type ADFNode struct {
	Type    string    `json:"type"`
	Content []ADFNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
}

// NewWorklog converts a validated entry into its wire payload. The work
// is stamped at 09:00 UTC on the entry date; hours convert to whole
// seconds with half-up rounding.
func NewWorklog(e model.Entry) Worklog {
	started := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), startHour, 0, 0, 0, time.UTC)
	return Worklog{
		Started:          started.Format(startedFormat),
		TimeSpentSeconds: int64(math.Floor(e.Hours*3600 + 0.5)),
		Comment:          NewADFComment(e.Description),
	}
}

// NewADFComment wraps text in a single-paragraph ADF document.
func NewADFComment(text string) ADFDoc {
	return ADFDoc{
		Type:    "doc",
		Version: 1,
		Content: []ADFNode{{
			Type:    "paragraph",
			Content: []ADFNode{{Type: "text", Text: text}},
		}},
	}
}

// WorklogCreated is the subset of the creation response that gets read
// back. StatusCode carries the HTTP status of the successful response.
type WorklogCreated struct {
	ID        string `json:"id"`
	IssueID   string `json:"issueId"`
	TimeSpent string `json:"timeSpent"`
	Self      string `json:"self"`

	StatusCode int `json:"-"`
}
