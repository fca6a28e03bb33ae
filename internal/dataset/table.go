package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing a date cell.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"2006-01",
}

// table is a CSV file held in memory with its header indexed by lower-cased name.
type table struct {
	path    string
	header  []string
	columns map[string]int
	records [][]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parseTable(path, f)
}

func parseTable(path string, r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{File: path, Err: errors.New("empty file")}
	}
	if err != nil {
		return nil, &ParseError{File: path, Row: 1, Err: err}
	}

	t := &table{path: path, header: header, columns: make(map[string]int, len(header))}
	for i, col := range header {
		// exported spreadsheets often carry a UTF-8 BOM
		col = strings.TrimPrefix(col, "\ufeff")
		t.columns[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{File: path, Row: csvErr.Line, Err: csvErr.Err}
			}
			return nil, &ParseError{File: path, Err: err}
		}
		t.records = append(t.records, rec)
	}
	return t, nil
}

// column returns the index of the first of names present in the header.
func (t *table) column(names ...string) (int, error) {
	for _, n := range names {
		if i, ok := t.columns[strings.ToLower(n)]; ok {
			return i, nil
		}
	}
	return 0, &ParseError{File: t.path, Err: fmt.Errorf("missing column %s", names[0])}
}

// row returns the file line number of record i (header is line 1).
func (t *table) row(i int) int { return i + 2 }

func (t *table) cell(i, col int, name string) (string, error) {
	rec := t.records[i]
	if col >= len(rec) {
		return "", &ParseError{File: t.path, Row: t.row(i), Column: name, Err: errors.New("missing value")}
	}
	return strings.TrimSpace(rec[col]), nil
}

func (t *table) float(i, col int, name string) (float64, error) {
	s, err := t.cell(i, col, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{File: t.path, Row: t.row(i), Column: name, Err: fmt.Errorf("invalid number %q", s)}
	}
	return v, nil
}

func (t *table) date(i, col int, name string) (time.Time, error) {
	s, err := t.cell(i, col, name)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, &ParseError{File: t.path, Row: t.row(i), Column: name, Err: fmt.Errorf("invalid date %q", s)}
}
