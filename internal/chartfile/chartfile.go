// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package chartfile reads YAML chart descriptions and turns them into
// timeplot inputs: a container, event sources and plot infos.
//
// A chart looks like:
//
//	width: 800
//	height: 300
//	padding: 10
//	time:
//	  zone: 2
//	  grid: "#e0e0e0"
//	sources:
//	  - name: load
//	    url: data/load.csv
//	  - name: deploys
//	    url: https://example.com/deploys.xml
//	    format: xml
//	plots:
//	  - source: load
//	    column: 1
//	    events: deploys
//	    fill: "#cc8080"
//	    value: {min: 0, labels: right}
//
// Every plot shares the chart's time axis.
package chartfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/timeplot/data"
	"github.com/gogpu/timeplot/geometry"
	"github.com/gogpu/timeplot/plot"
	"github.com/gogpu/timeplot/surface"
)

// Source formats.
const (
	FormatText = "text"
	FormatXML  = "xml"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("chartfile: invalid chart")

// Chart is a chart description.
type Chart struct {
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Padding int      `yaml:"padding"`
	Time    Time     `yaml:"time"`
	Sources []Source `yaml:"sources"`
	Plots   []Plot   `yaml:"plots"`

	// dir resolves relative source paths; empty for charts not read
	// from a file.
	dir string
}

// Time describes the shared time axis.
type Time struct {
	Zone   int                `yaml:"zone"`
	From   string             `yaml:"from"`
	To     string             `yaml:"to"`
	Grid   string             `yaml:"grid"`
	Labels geometry.Placement `yaml:"labels"`
}

// Source is a data document to load.
type Source struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Format    string `yaml:"format"`
	Separator string `yaml:"separator"`
}

// Value describes the value axis of a plot.
type Value struct {
	Min      *float64           `yaml:"min"`
	Max      *float64           `yaml:"max"`
	Grid     string             `yaml:"grid"`
	Labels   geometry.Placement `yaml:"labels"`
	Language string             `yaml:"language"`
}

// Plot describes one plot.
type Plot struct {
	ID     string `yaml:"id"`
	Source string `yaml:"source"`
	Column int    `yaml:"column"`
	Events string `yaml:"events"`
	Value  Value  `yaml:"value"`

	Fill           string   `yaml:"fill"`
	Line           *string  `yaml:"line"`
	Dot            string   `yaml:"dot"`
	LineWidth      *float64 `yaml:"lineWidth"`
	DotRadius      *float64 `yaml:"dotRadius"`
	EventLineWidth *float64 `yaml:"eventLineWidth"`
	ShowValues     bool     `yaml:"showValues"`
	RoundValues    *bool    `yaml:"roundValues"`
	ValuesOpacity  *int     `yaml:"valuesOpacity"`
}

// Parse decodes and validates a chart. Unknown keys are rejected.
func Parse(r io.Reader) (*Chart, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Chart
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("chartfile: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads the chart at path from fsys. Relative source URLs are
// resolved against the chart's directory.
func Load(fsys afero.Fs, path string) (*Chart, error) {
	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("chartfile: %w", err)
	}
	c, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

// Validate checks references between plots and sources and fills in
// defaults.
func (c *Chart) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.Padding < 0 || 2*c.Padding >= min(c.Width, c.Height) {
		return fmt.Errorf("%w: padding %d", ErrInvalid, c.Padding)
	}
	if (c.Time.From == "") != (c.Time.To == "") {
		return fmt.Errorf("%w: time needs both from and to", ErrInvalid)
	}
	if err := validPlacement(c.Time.Labels); err != nil {
		return err
	}

	names := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		s := &c.Sources[i]
		switch {
		case s.Name == "":
			return fmt.Errorf("%w: source %d has no name", ErrInvalid, i+1)
		case names[s.Name]:
			return fmt.Errorf("%w: duplicate source %q", ErrInvalid, s.Name)
		case s.URL == "":
			return fmt.Errorf("%w: source %q has no url", ErrInvalid, s.Name)
		}
		names[s.Name] = true

		if s.Format == "" {
			s.Format = FormatText
			if strings.EqualFold(filepath.Ext(s.URL), ".xml") {
				s.Format = FormatXML
			}
		}
		if s.Format != FormatText && s.Format != FormatXML {
			return fmt.Errorf("%w: source %q: format %q", ErrInvalid, s.Name, s.Format)
		}
		if len([]rune(s.Separator)) > 1 {
			return fmt.Errorf("%w: source %q: separator %q", ErrInvalid, s.Name, s.Separator)
		}
	}

	if len(c.Plots) == 0 {
		return fmt.Errorf("%w: no plots", ErrInvalid)
	}
	for i := range c.Plots {
		p := &c.Plots[i]
		if p.Source == "" && p.Events == "" {
			return fmt.Errorf("%w: plot %d has neither source nor events", ErrInvalid, i+1)
		}
		for _, ref := range []string{p.Source, p.Events} {
			if ref != "" && !names[ref] {
				return fmt.Errorf("%w: plot %d: unknown source %q", ErrInvalid, i+1, ref)
			}
		}
		if p.Source != "" && p.Column == 0 {
			p.Column = 1
		}
		if p.Column < 0 {
			return fmt.Errorf("%w: plot %d: column %d", ErrInvalid, i+1, p.Column)
		}
		if err := validPlacement(p.Value.Labels); err != nil {
			return err
		}
		if p.Value.Language != "" {
			if _, err := language.Parse(p.Value.Language); err != nil {
				return fmt.Errorf("%w: plot %d: language: %w", ErrInvalid, i+1, err)
			}
		}
	}
	return nil
}

func validPlacement(p geometry.Placement) error {
	switch p {
	case "", geometry.LabelsNone, geometry.LabelsLeft, geometry.LabelsRight,
		geometry.LabelsTop, geometry.LabelsBottom:
		return nil
	}
	return fmt.Errorf("%w: label placement %q", ErrInvalid, p)
}

// Location returns where the source is fetched from: URLs as written,
// relative paths joined to the chart's directory.
func (c *Chart) Location(s Source) string {
	if strings.Contains(s.URL, "://") || filepath.IsAbs(s.URL) || c.dir == "" {
		return s.URL
	}
	return filepath.Join(c.dir, s.URL)
}

// Local reports whether the source is read from the file system, and
// returns its path.
func (c *Chart) Local(s Source) (string, bool) {
	loc := c.Location(s)
	if path, ok := strings.CutPrefix(loc, "file://"); ok {
		return path, true
	}
	if strings.Contains(loc, "://") {
		return "", false
	}
	return loc, true
}

// SeparatorRune returns the column separator, zero for the default.
func (s Source) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(s.Separator)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// Built holds the timeplot inputs of a chart.
type Built struct {
	Box     *surface.Box
	Infos   []plot.Info
	Sources map[string]*data.EventSource
}

// Build creates empty event sources and the plots over them.
func (c *Chart) Build() (*Built, error) {
	b := &Built{
		Box:     surface.NewBox(c.Width, c.Height, surface.Uniform(c.Padding)),
		Sources: make(map[string]*data.EventSource, len(c.Sources)),
	}
	for _, s := range c.Sources {
		b.Sources[s.Name] = data.NewEventSource()
	}

	tg, err := c.timeGeometry()
	if err != nil {
		return nil, err
	}

	for _, p := range c.Plots {
		var vopts []geometry.ValueOption
		if p.Value.Min != nil {
			vopts = append(vopts, geometry.WithMin(*p.Value.Min))
		}
		if p.Value.Max != nil {
			vopts = append(vopts, geometry.WithMax(*p.Value.Max))
		}
		if p.Value.Grid != "" {
			vopts = append(vopts, geometry.WithValueGrid(p.Value.Grid))
		}
		if p.Value.Labels != "" {
			vopts = append(vopts, geometry.WithValueLabels(p.Value.Labels))
		}
		if p.Value.Language != "" {
			vopts = append(vopts, geometry.WithLanguage(language.Make(p.Value.Language)))
		}

		opts := []plot.InfoOption{
			plot.WithTimeZone(c.Time.Zone),
			plot.WithTimeGeometry(tg),
			plot.WithValueGeometry(geometry.NewValueGeometry(vopts...)),
			plot.WithShowValues(p.ShowValues),
		}
		if p.ID != "" {
			opts = append(opts, plot.WithID(p.ID))
		}
		if p.Source != "" {
			opts = append(opts, plot.WithDataSource(data.NewColumnSource(b.Sources[p.Source], p.Column)))
		}
		if p.Events != "" {
			opts = append(opts, plot.WithEventSource(b.Sources[p.Events]))
		}
		if p.Fill != "" {
			opts = append(opts, plot.WithFillColor(p.Fill))
		}
		if p.Line != nil {
			opts = append(opts, plot.WithLineColor(*p.Line))
		}
		if p.Dot != "" {
			opts = append(opts, plot.WithDotColor(p.Dot))
		}
		if p.LineWidth != nil {
			opts = append(opts, plot.WithLineWidth(*p.LineWidth))
		}
		if p.DotRadius != nil {
			opts = append(opts, plot.WithDotRadius(*p.DotRadius))
		}
		if p.EventLineWidth != nil {
			opts = append(opts, plot.WithEventLineWidth(*p.EventLineWidth))
		}
		if p.RoundValues != nil {
			opts = append(opts, plot.WithRoundValues(*p.RoundValues))
		}
		if p.ValuesOpacity != nil {
			opts = append(opts, plot.WithValuesOpacity(*p.ValuesOpacity))
		}
		b.Infos = append(b.Infos, plot.NewInfo(opts...))
	}
	return b, nil
}

func (c *Chart) timeGeometry() (*geometry.DefaultTimeGeometry, error) {
	opts := []geometry.TimeOption{geometry.WithTimeZone(c.Time.Zone)}
	if c.Time.From != "" {
		from, err := data.ParseDate(c.Time.From)
		if err != nil {
			return nil, fmt.Errorf("%w: time.from: %w", ErrInvalid, err)
		}
		to, err := data.ParseDate(c.Time.To)
		if err != nil {
			return nil, fmt.Errorf("%w: time.to: %w", ErrInvalid, err)
		}
		if !to.After(from) {
			return nil, fmt.Errorf("%w: time period ends at %s before it starts", ErrInvalid, to.Format(time.RFC3339))
		}
		opts = append(opts, geometry.WithPeriod(from, to))
	}
	if c.Time.Grid != "" {
		opts = append(opts, geometry.WithTimeGrid(c.Time.Grid))
	}
	if c.Time.Labels != "" {
		opts = append(opts, geometry.WithTimeLabels(c.Time.Labels))
	}
	return geometry.NewTimeGeometry(opts...), nil
}
