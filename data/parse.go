// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrBadDate is wrapped by errors for unparseable timestamps.
var ErrBadDate = errors.New("data: unrecognized date")

// ParseError locates a parse failure in a loaded document.
type ParseError struct {
	URL  string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("data: %s:%d: %v", e.URL, e.Line, e.Err)
	}
	return fmt.Sprintf("data: %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Filter rewrites the parsed rows of a text document before they are
// converted to events, for inputs whose layout differs from the expected
// "date, value, value..." rows.
type Filter func(rows [][]string) [][]string

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

var gregorianLayouts = []string{
	"Jan 2 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"Jan 2 2006 15:04:05",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate parses ISO 8601 dates and the Gregorian forms used by Timeline
// XML. Timestamps without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layouts := range [][]string{isoLayouts, gregorianLayouts} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// LoadText parses delimited rows of the form "date, value, value..." and
// appends them as instant events. Lines starting with '#' are comments.
// Empty value cells become NaN. The separator defaults to a comma.
// Nothing is added when any row fails to parse.
func (s *EventSource) LoadText(r io.Reader, separator rune, url string, filter Filter) error {
	rows, err := readRows(r, separator)
	if err != nil {
		return &ParseError{URL: url, Err: err}
	}
	if filter != nil {
		rows = filter(rows)
	}

	events := make([]Event, 0, len(rows))
	for i, row := range rows {
		e, err := rowEvent(row)
		if err != nil {
			return &ParseError{URL: url, Line: i + 1, Err: err}
		}
		events = append(events, e)
	}

	s.AddMany(events)
	return nil
}

func readRows(r io.Reader, separator rune) ([][]string, error) {
	if separator == 0 {
		separator = ','
	}
	cr := csv.NewReader(r)
	cr.Comma = separator
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		rows = append(rows, rec)
	}
}

func rowEvent(row []string) (Event, error) {
	if len(row) == 0 {
		return Event{}, errors.New("empty row")
	}
	t, err := ParseDate(row[0])
	if err != nil {
		return Event{}, err
	}

	values := make([]float64, len(row)-1)
	for i, cell := range row[1:] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Event{}, fmt.Errorf("column %d: %w", i+2, err)
		}
		values[i] = v
	}
	return Event{Start: t, End: t, Instant: true, Values: values}, nil
}
