// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package overlay

import (
	"maps"
	"strings"
)

// Class names used by the timeplot packages.
const (
	ClassDiv              = "timeplot-div"
	ClassGrid             = "timeplot-grid"
	ClassGridLabel        = "timeplot-grid-label"
	ClassValueFlag        = "timeplot-valueflag"
	ClassMessageContainer = "timeplot-message-container"
	ClassMessage          = "timeplot-message"
	ClassBubble           = "timeplot-bubble"
	ClassAlert            = "timeplot-alert"
)

// Stylesheet maps a class name to the styles it contributes. Inline styles
// of a node take precedence over its classes, and later classes take
// precedence over earlier ones.
type Stylesheet map[string]Styles

// DefaultStylesheet returns a fresh copy of the built-in stylesheet.
func DefaultStylesheet() Stylesheet {
	return Stylesheet{
		ClassDiv: {
			"color":     "#000000",
			"font-size": DefaultFontSize,
		},
		ClassGrid: {
			"background-color": "#d0d0d0",
		},
		ClassGridLabel: {
			"color":     "#606060",
			"font-size": 9.0,
		},
		ClassValueFlag: {
			"background-color": "#ffffff",
			"border-color":     "#606060",
			"padding":          2.0,
		},
		ClassMessageContainer: {
			"background-color": "#fffff0",
			"border-color":     "#808080",
			"padding":          8.0,
			"font-size":        12.0,
		},
		ClassBubble: {
			"background-color": "#ffffff",
			"border-color":     "#303030",
			"padding":          6.0,
		},
		ClassAlert: {
			"background-color": "#ffe8e8",
			"border-color":     "#c00000",
			"color":            "#800000",
		},
	}
}

// Compute returns the effective styles for a class list and inline styles.
func (s Stylesheet) Compute(classes string, inline Styles) Styles {
	out := make(Styles)
	for _, c := range strings.Fields(classes) {
		maps.Copy(out, s[c])
	}
	maps.Copy(out, inline)
	return out
}
