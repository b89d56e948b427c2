// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package data

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"1999", time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05T10:20:30Z", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{" 2024-03-05 10:20 ", time.Date(2024, 3, 5, 10, 20, 0, 0, time.UTC)},
		{"May 20 1961 00:00:00 GMT-0600", time.Date(1961, 5, 20, 6, 0, 0, 0, time.UTC)},
		{"Jan 5 2001", time.Date(2001, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}

	_, err := ParseDate("yesterday")
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestLoadText(t *testing.T) {
	const doc = `# date, min, max
2024-01-01, 1.5, 10
2024-01-03,  , 12

2024-01-02, 2.5, 11
`
	es := NewEventSource()
	l := &countingListener{}
	es.AddListener(l)

	require.NoError(t, es.LoadText(strings.NewReader(doc), ',', "mem://temps", nil))
	assert.Equal(t, 1, l.added, "one notification per load")

	events := es.Events()
	require.Len(t, events, 3)
	assert.Equal(t, day(2), events[1].Start)
	assert.Equal(t, []float64{2.5, 11}, events[1].Values)
	assert.True(t, math.IsNaN(events[2].Values[0]))
	assert.True(t, events[0].Instant)
}

func TestLoadTextSeparatorAndFilter(t *testing.T) {
	const doc = "2024/01/01\t4\n2024/01/02\t5\n"
	slashes := func(rows [][]string) [][]string {
		for _, row := range rows {
			row[0] = strings.ReplaceAll(row[0], "/", "-")
		}
		return rows
	}

	es := NewEventSource()
	require.NoError(t, es.LoadText(strings.NewReader(doc), '\t', "mem://tsv", slashes))
	col := NewColumnSource(es, 1)
	defer col.Close()

	r, ok := col.Range()
	require.True(t, ok)
	assert.Equal(t, 4.0, r.Min)
	assert.Equal(t, 5.0, r.Max)
}

func TestLoadTextIsAllOrNothing(t *testing.T) {
	const doc = "2024-01-01,1\n2024-01-02,oops\n"
	es := NewEventSource()
	l := &countingListener{}
	es.AddListener(l)

	err := es.LoadText(strings.NewReader(doc), ',', "mem://bad", nil)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, "mem://bad", perr.URL)
	assert.Equal(t, 0, es.Len())
	assert.Equal(t, 0, l.added)

	err = es.LoadText(strings.NewReader("someday,1\n"), ',', "mem://bad", nil)
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestLoadXML(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="ISO-8859-1"?>
<data date-time-format="iso8601">
  <event start="2024-01-02" title="Release" link="https://example.com/r">Shipped</event>
  <event start="2024-01-05" end="2024-01-09" title="Freeze" color="#c00"/>
  <event start="2024-01-01" isDuration="true" title="Open"/>
</data>`
	es := NewEventSource()
	require.NoError(t, es.LoadXML(strings.NewReader(doc), "mem://events.xml"))

	events := es.Events()
	require.Len(t, events, 3)

	assert.Equal(t, "Open", events[0].Title)
	assert.False(t, events[0].Instant)

	assert.Equal(t, "Release", events[1].Title)
	assert.True(t, events[1].Instant)
	assert.Equal(t, "Shipped", events[1].Description)
	assert.Equal(t, "https://example.com/r", events[1].Link)

	assert.Equal(t, "Freeze", events[2].Title)
	assert.False(t, events[2].Instant)
	assert.Equal(t, day(9), events[2].End)
	assert.Equal(t, "#c00", events[2].Color)
}

func TestLoadXMLErrors(t *testing.T) {
	es := NewEventSource()

	err := es.LoadXML(strings.NewReader("<data><event"), "mem://broken")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)

	err = es.LoadXML(strings.NewReader(`<data><event start="2024-01-01"/><event start="never"/></data>`), "mem://dates")
	assert.ErrorIs(t, err, ErrBadDate)
	assert.Equal(t, 0, es.Len())
}
