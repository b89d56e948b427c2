// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package overlay

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSize is the font size of nodes without a "font-size" style.
const DefaultFontSize = 10.0

var (
	regularOnce sync.Once
	regular     *text.FontSource
	regularErr  error
)

// regularSource returns the shared Go Regular font source.
func regularSource() (*text.FontSource, error) {
	regularOnce.Do(func() {
		regular, regularErr = text.NewFontSource(goregular.TTF)
		if regularErr != nil {
			regularErr = fmt.Errorf("overlay: load font: %w", regularErr)
		}
	})
	return regular, regularErr
}

// faces caches one face per size.
type faces struct {
	mu    sync.Mutex
	sizes map[float64]text.Face
}

func (f *faces) face(size float64) (text.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.sizes[size]; ok {
		return face, nil
	}
	src, err := regularSource()
	if err != nil {
		return nil, err
	}
	if f.sizes == nil {
		f.sizes = make(map[float64]text.Face)
	}
	face := src.Face(size)
	f.sizes[size] = face
	return face, nil
}

// measure returns the advance width and line height of s.
func (f *faces) measure(s string, size float64) (w, h float64) {
	face, err := f.face(size)
	if err != nil {
		return 0, 0
	}
	return text.Measure(s, face)
}
