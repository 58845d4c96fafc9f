package timesheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names the CSV header must contain. Matching is exact and
// case-sensitive; column order does not matter and extra columns are
// ignored.
const (
	ColumnDate        = "Date"
	ColumnTicket      = "Jira Ticket Number"
	ColumnDescription = "Work Description"
	ColumnHours       = "Hours"
)

var requiredColumns = []string{ColumnDate, ColumnTicket, ColumnDescription, ColumnHours}

// RawRow is one CSV data row with all cells trimmed. Line is the
// 1-based row number in the file, counting the header as row 1.
type RawRow struct {
	Line        int
	Date        string
	Ticket      string
	Description string
	Hours       string
}

// Blank reports whether every cell is empty, i.e. a padding row.
func (r RawRow) Blank() bool {
	return r.Date == "" && r.Ticket == "" && r.Description == "" && r.Hours == ""
}

// Reader streams timesheet rows out of a CSV file.
type Reader struct {
	f    *os.File
	csv  *csv.Reader
	cols map[string]int
	line int
}

// Open opens the CSV file and verifies that the header carries all
// required columns.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening timesheet file: %w", err)
	}

	cr := csv.NewReader(f)
	// Short rows surface as per-row validation failures, not a parser
	// abort halfway through the file.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		f.Close()
		return nil, fmt.Errorf("timesheet file %s is empty", path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			f.Close()
			return nil, fmt.Errorf("timesheet file %s is missing required column %q", path, name)
		}
	}

	return &Reader{f: f, csv: cr, cols: cols, line: 1}, nil
}

// Next returns the next data row, or io.EOF at end of file.
func (r *Reader) Next() (RawRow, error) {
	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return RawRow{}, io.EOF
	}
	if err != nil {
		return RawRow{}, fmt.Errorf("reading row: %w", err)
	}
	r.line++
	return RawRow{
		Line:        r.line,
		Date:        r.cell(record, ColumnDate),
		Ticket:      r.cell(record, ColumnTicket),
		Description: r.cell(record, ColumnDescription),
		Hours:       r.cell(record, ColumnHours),
	}, nil
}

// cell returns the trimmed value under the named column, or "" when the
// record is too short to reach it.
func (r *Reader) cell(record []string, column string) string {
	i := r.cols[column]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
