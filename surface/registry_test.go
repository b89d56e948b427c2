// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/gg"
)

func TestRegistryBestPriority(t *testing.T) {
	r := NewRegistry()

	var picked string
	mk := func(name string) Provider {
		return ProviderFunc(func(w, h int) (*gg.Context, error) {
			picked = name
			return gg.NewContext(w, h), nil
		})
	}
	r.Register("low", 10, mk("low"), nil)
	r.Register("high", 100, mk("high"), nil)
	r.Register("off", 200, mk("off"), func() bool { return false })

	if got := r.Available(); len(got) != 2 || got[0] != "high" || got[1] != "low" {
		t.Fatalf("Available() = %v, want [high low]", got)
	}

	p, err := r.Best()
	if err != nil {
		t.Fatalf("Best() error = %v", err)
	}
	if _, err := p.NewContext(4, 4); err != nil {
		t.Fatal(err)
	}
	if picked != "high" {
		t.Errorf("Best() picked %q, want high", picked)
	}
}

func TestRegistryEmptyIsUnsupported(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Best(); !errors.Is(err, ErrUnsupportedSurface) {
		t.Errorf("Best() error = %v, want ErrUnsupportedSurface", err)
	}
}

func TestRegistryByName(t *testing.T) {
	r := NewRegistry()
	r.Register("software", 10, Software, nil)
	r.Register("gone", 10, Software, func() bool { return false })

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"software", false},
		{"gone", true},
		{"missing", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedSurface) {
				t.Errorf("error %v does not wrap ErrUnsupportedSurface", err)
			}
		})
	}

	r.Unregister("software")
	if _, err := r.ByName("software"); err == nil {
		t.Error("ByName after Unregister should fail")
	}
}

func TestDefaultRegistryHasSoftware(t *testing.T) {
	found := false
	for _, name := range Available() {
		if name == "software" {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, want software registered", Available())
	}
}
