package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrInvalidRenderer is returned when registering an empty name or a nil function.
	ErrInvalidRenderer = errors.New("invalid renderer")

	// ErrDuplicateRenderer is returned when a name is registered twice.
	ErrDuplicateRenderer = errors.New("renderer already registered")
)

// maxSuggestDistance bounds how far a misspelled name may be from a
// registered one before no suggestion is offered.
const maxSuggestDistance = 3

// RendererFunc renders a fetched payload. uri is the resource it came from.
type RendererFunc func(payload json.RawMessage, uri string) error

// UnknownRendererError is returned when a name has no registered renderer.
type UnknownRendererError struct {
	Name       string
	Suggestion string
}

func (e *UnknownRendererError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown renderer %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown renderer %q", e.Name)
}

// RendererPanicError wraps a panic raised inside a renderer.
type RendererPanicError struct {
	Name  string
	URI   string
	Value any
}

func (e *RendererPanicError) Error() string {
	return fmt.Sprintf("renderer %q panicked on %s: %v", e.Name, e.URI, e.Value)
}

// Registry maps renderer names to functions.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]RendererFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]RendererFunc)}
}

// Register adds fn under name.
func (r *Registry) Register(name string, fn RendererFunc) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRenderer)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil function for %q", ErrInvalidRenderer, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRenderer, name)
	}
	r.renderers[name] = fn
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// wiring fixed renderer sets at startup.
func (r *Registry) MustRegister(name string, fn RendererFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the renderer registered under name.
func (r *Registry) Lookup(name string) (RendererFunc, error) {
	r.mu.RLock()
	fn, ok := r.renderers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownRendererError{Name: name, Suggestion: r.suggest(name)}
	}
	return fn, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.renderers[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke looks up name and calls it with payload and uri. A panicking
// renderer is reported as *RendererPanicError.
func (r *Registry) Invoke(name string, payload json.RawMessage, uri string) (err error) {
	fn, err := r.Lookup(name)
	if err != nil {
		return err
	}

	defer func() {
		if v := recover(); v != nil {
			err = &RendererPanicError{Name: name, URI: uri, Value: v}
		}
	}()
	return fn(payload, uri)
}

func (r *Registry) suggest(name string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range r.Names() {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
