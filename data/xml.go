// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package data

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

type xmlDocument struct {
	XMLName        xml.Name   `xml:"data"`
	DateTimeFormat string     `xml:"date-time-format,attr"`
	Events         []xmlEvent `xml:"event"`
}

type xmlEvent struct {
	Start       string `xml:"start,attr"`
	End         string `xml:"end,attr"`
	IsDuration  string `xml:"isDuration,attr"`
	Title       string `xml:"title,attr"`
	Link        string `xml:"link,attr"`
	Color       string `xml:"color,attr"`
	Description string `xml:",chardata"`
}

// LoadXML parses a Timeline XML document:
//
//	<data date-time-format="iso8601">
//	  <event start="2006-01-02" end="2006-02-01" isDuration="true"
//	         title="Launch" link="https://..." color="#c00">Details</event>
//	</data>
//
// The document encoding is honored. An event is instant unless it has an
// end date or isDuration="true". Nothing is added on error.
func (s *EventSource) LoadXML(r io.Reader, url string) error {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var doc xmlDocument
	if err := decoder.Decode(&doc); err != nil {
		return &ParseError{URL: url, Err: err}
	}

	events := make([]Event, 0, len(doc.Events))
	for i, xe := range doc.Events {
		e, err := xe.event()
		if err != nil {
			return &ParseError{URL: url, Err: fmt.Errorf("event %d: %w", i+1, err)}
		}
		events = append(events, e)
	}

	s.AddMany(events)
	return nil
}

func (xe xmlEvent) event() (Event, error) {
	start, err := ParseDate(xe.Start)
	if err != nil {
		return Event{}, fmt.Errorf("start: %w", err)
	}
	e := Event{
		Start:       start,
		End:         start,
		Instant:     xe.IsDuration != "true" && strings.TrimSpace(xe.End) == "",
		Title:       xe.Title,
		Description: strings.TrimSpace(xe.Description),
		Link:        xe.Link,
		Color:       xe.Color,
	}
	if strings.TrimSpace(xe.End) != "" {
		if e.End, err = ParseDate(xe.End); err != nil {
			return Event{}, fmt.Errorf("end: %w", err)
		}
	}
	return e, nil
}
