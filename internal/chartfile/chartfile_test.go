// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package chartfile_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/timeplot/geometry"
	"github.com/gogpu/timeplot/internal/chartfile"
)

const chart = `
width: 800
height: 300
padding: 10
time:
  zone: 2
  from: 2026-03-01
  to: 2026-03-02
  labels: bottom
sources:
  - name: load
    url: data/load.csv
    separator: ";"
  - name: deploys
    url: https://example.com/deploys.xml
plots:
  - id: cpu
    source: load
    events: deploys
    fill: "#cc8080"
    line: ""
    lineWidth: 2
    showValues: true
    value: {min: 0, max: 4, labels: right, language: de}
  - source: load
    column: 2
`

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/charts/cpu.yaml", []byte(chart), 0o644))

	c, err := chartfile.Load(fs, "/charts/cpu.yaml")
	require.NoError(t, err)

	assert.Equal(t, 800, c.Width)
	assert.Equal(t, 2, c.Time.Zone)
	assert.Equal(t, geometry.LabelsBottom, c.Time.Labels)
	require.Len(t, c.Sources, 2)
	assert.Equal(t, chartfile.FormatText, c.Sources[0].Format)
	assert.Equal(t, chartfile.FormatXML, c.Sources[1].Format, "format from extension")
	assert.Equal(t, ';', c.Sources[0].SeparatorRune())
	assert.Equal(t, rune(0), c.Sources[1].SeparatorRune())
	assert.Equal(t, 1, c.Plots[0].Column, "default column")

	path, ok := c.Local(c.Sources[0])
	assert.True(t, ok)
	assert.Equal(t, "/charts/data/load.csv", path)

	_, ok = c.Local(c.Sources[1])
	assert.False(t, ok)
	assert.Equal(t, "https://example.com/deploys.xml", c.Location(c.Sources[1]))
}

func TestBuild(t *testing.T) {
	c, err := chartfile.Parse(strings.NewReader(chart))
	require.NoError(t, err)

	b, err := c.Build()
	require.NoError(t, err)

	w, h := b.Box.ClientSize()
	assert.Equal(t, [2]int{800, 300}, [2]int{w, h})
	w, h = b.Box.ContentSize()
	assert.Equal(t, [2]int{780, 280}, [2]int{w, h})

	require.Len(t, b.Sources, 2)
	require.Len(t, b.Infos, 2)

	cpu := b.Infos[0]
	assert.Equal(t, "cpu", cpu.ID)
	assert.NotNil(t, cpu.DataSource)
	assert.Same(t, b.Sources["deploys"], cpu.EventSource)
	require.NotNil(t, cpu.FillColor)
	assert.InDelta(t, 0.8, cpu.FillColor.R, 0.01)
	assert.Nil(t, cpu.LineColor, "empty line color disables the line")
	assert.Equal(t, 2.0, cpu.LineWidth)
	assert.True(t, cpu.ShowValues)
	assert.True(t, cpu.RoundValues, "default rounding kept")

	vg, ok := cpu.ValueGeometry.(*geometry.DefaultValueGeometry)
	require.True(t, ok)
	lo, hi := vg.Range()
	assert.Equal(t, [2]float64{0, 4}, [2]float64{lo, hi})

	// Plots share the time axis.
	assert.Same(t, b.Infos[0].TimeGeometry, b.Infos[1].TimeGeometry)
	tg := b.Infos[1].TimeGeometry.(*geometry.DefaultTimeGeometry)
	from, to := tg.Period()
	assert.Equal(t, 24.0, to.Sub(from).Hours())

	assert.NotNil(t, b.Infos[1].LineColor, "default line color")
	assert.Nil(t, b.Infos[1].EventSource)
}

func TestParseErrors(t *testing.T) {
	base := "width: 100\nheight: 100\n"
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no size", "plots: [{source: a}]\nsources: [{name: a, url: a.csv}]\n"},
		{"padding too large", base + "padding: 50\nsources: [{name: a, url: a.csv}]\nplots: [{source: a}]\n"},
		{"no plots", base + "sources: [{name: a, url: a.csv}]\n"},
		{"unknown source", base + "sources: [{name: a, url: a.csv}]\nplots: [{source: b}]\n"},
		{"duplicate source", base + "sources: [{name: a, url: a.csv}, {name: a, url: b.csv}]\nplots: [{source: a}]\n"},
		{"bad format", base + "sources: [{name: a, url: a.csv, format: json}]\nplots: [{source: a}]\n"},
		{"bad separator", base + "sources: [{name: a, url: a.csv, separator: ';;'}]\nplots: [{source: a}]\n"},
		{"bad labels", base + "sources: [{name: a, url: a.csv}]\nplots: [{source: a, value: {labels: middle}}]\n"},
		{"half period", base + "time: {from: 2026-01-01}\nsources: [{name: a, url: a.csv}]\nplots: [{source: a}]\n"},
		{"empty plot", base + "sources: [{name: a, url: a.csv}]\nplots: [{fill: red}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chartfile.Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, chartfile.ErrInvalid)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := chartfile.Parse(strings.NewReader("width: 10\nheight: 10\ncolour: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestBuildRejectsBackwardsPeriod(t *testing.T) {
	doc := "width: 100\nheight: 100\ntime: {from: 2026-01-02, to: 2026-01-01}\n" +
		"sources: [{name: a, url: a.csv}]\nplots: [{source: a}]\n"
	c, err := chartfile.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	_, err = c.Build()
	assert.ErrorIs(t, err, chartfile.ErrInvalid)
}
