package timesheet_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jiralog/jiralog/internal/timesheet"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timesheet.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := timesheet.Open(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	_, err := timesheet.Open(writeCSV(t, ""))
	if err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestOpen_MissingColumn(t *testing.T) {
	path := writeCSV(t, "Date,Jira Ticket Number,Work Description\n2024-01-15,PROJ-1,x\n")
	_, err := timesheet.Open(path)
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !strings.Contains(err.Error(), `"Hours"`) {
		t.Errorf("error = %v, want mention of the missing column", err)
	}
}

func TestOpen_HeaderOrderIrrelevant(t *testing.T) {
	path := writeCSV(t, "Hours,Date,Extra,Work Description,Jira Ticket Number\n2.5,2024-01-15,ignored,Code review,PROJ-1\n")
	r, err := timesheet.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	row, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Date != "2024-01-15" || row.Ticket != "PROJ-1" || row.Description != "Code review" || row.Hours != "2.5" {
		t.Errorf("row = %+v, cells mapped wrong", row)
	}
}

func TestNext_TrimsCells(t *testing.T) {
	path := writeCSV(t, "Date,Jira Ticket Number,Work Description,Hours\n  2024-01-15 , PROJ-1 ,  Code review  , 2.5 \n")
	r, err := timesheet.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	row, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Date != "2024-01-15" {
		t.Errorf("Date = %q, want trimmed", row.Date)
	}
	if row.Ticket != "PROJ-1" {
		t.Errorf("Ticket = %q, want trimmed", row.Ticket)
	}
	if row.Description != "Code review" {
		t.Errorf("Description = %q, want trimmed", row.Description)
	}
	if row.Hours != "2.5" {
		t.Errorf("Hours = %q, want trimmed", row.Hours)
	}
}

func TestNext_LineNumbers(t *testing.T) {
	path := writeCSV(t, "Date,Jira Ticket Number,Work Description,Hours\n2024-01-15,PROJ-1,a,1\n2024-01-16,PROJ-2,b,2\n")
	r, err := timesheet.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Line != 2 {
		t.Errorf("first row Line = %d, want 2 (header is row 1)", first.Line)
	}
	second, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.Line != 3 {
		t.Errorf("second row Line = %d, want 3", second.Line)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("after last row: err = %v, want io.EOF", err)
	}
}

func TestNext_ShortRow(t *testing.T) {
	path := writeCSV(t, "Date,Jira Ticket Number,Work Description,Hours\n2024-01-15,PROJ-1\n")
	r, err := timesheet.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	row, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Description != "" || row.Hours != "" {
		t.Errorf("short row = %+v, want empty cells for missing columns", row)
	}
}

func TestRawRow_Blank(t *testing.T) {
	path := writeCSV(t, "Date,Jira Ticket Number,Work Description,Hours\n,,,\n2024-01-15,,,\n")
	r, err := timesheet.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	blank, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !blank.Blank() {
		t.Errorf("all-empty row: Blank() = false, want true")
	}
	partial, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if partial.Blank() {
		t.Errorf("partially-filled row: Blank() = true, want false")
	}
}
