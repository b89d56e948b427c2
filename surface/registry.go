// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gg"
)

// Errors.
var (
	// ErrUnsupportedSurface is returned when no provider can create a
	// drawing context on this host. Rendering is disabled; the caller
	// should show a static fallback message instead.
	ErrUnsupportedSurface = errors.New("surface: drawing surface not supported")

	// ErrClosed is returned by operations on a closed Manager.
	ErrClosed = errors.New("surface: closed")
)

// Provider creates drawing contexts.
type Provider interface {
	NewContext(width, height int) (*gg.Context, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(width, height int) (*gg.Context, error)

// NewContext implements Provider.
func (f ProviderFunc) NewContext(width, height int) (*gg.Context, error) {
	return f(width, height)
}

// Software creates contexts backed by gg's CPU rasterizer.
var Software Provider = ProviderFunc(func(width, height int) (*gg.Context, error) {
	return gg.NewContext(width, height), nil
})

// Unsupported is a provider for hosts without a drawing primitive.
var Unsupported Provider = ProviderFunc(func(int, int) (*gg.Context, error) {
	return nil, ErrUnsupportedSurface
})

// RegistryEntry represents a registered provider.
type RegistryEntry struct {
	// Name is the unique identifier for this provider.
	Name string

	// Priority determines selection order (higher = preferred).
	Priority int

	Provider Provider

	// Available reports if the provider can be used on this host.
	Available func() bool
}

var globalRegistry = NewRegistry()

// Registry selects providers by name or priority.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and Best.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a provider to the global registry.
// If available is nil, the provider is assumed always available.
func Register(name string, priority int, p Provider, available func() bool) {
	globalRegistry.Register(name, priority, p, available)
}

// Unregister removes a provider from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// Available returns names of the available providers in the global
// registry, highest priority first.
func Available() []string {
	return globalRegistry.Available()
}

// Best returns the highest priority available provider of the global
// registry.
func Best() (Provider, error) {
	return globalRegistry.Best()
}

// ByName returns a named provider of the global registry.
func ByName(name string) (Provider, error) {
	return globalRegistry.ByName(name)
}

// Register adds a provider to this registry, replacing any entry with the
// same name.
func (r *Registry) Register(name string, priority int, p Provider, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Provider:  p,
		Available: available,
	}
}

// Unregister removes a provider from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Available returns names of all available providers sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames()
}

// Best returns the highest priority available provider, or
// ErrUnsupportedSurface when there is none.
func (r *Registry) Best() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.sortedNames()
	if len(names) == 0 {
		return nil, ErrUnsupportedSurface
	}
	return r.entries[names[0]].Provider, nil
}

// ByName returns the named provider. An unknown or unavailable provider
// yields an error wrapping ErrUnsupportedSurface.
func (r *Registry) ByName(name string) (Provider, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: provider %q not registered", ErrUnsupportedSurface, name)
	}
	if !entry.Available() {
		return nil, fmt.Errorf("%w: provider %q unavailable", ErrUnsupportedSurface, name)
	}
	return entry.Provider, nil
}

// sortedNames must be called with the lock held.
func (r *Registry) sortedNames() []string {
	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority == entries[j].priority {
			return entries[i].name < entries[j].name
		}
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

func init() {
	Register("software", 10, Software, nil)
}
