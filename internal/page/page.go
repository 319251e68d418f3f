package page

import (
	"slices"
)

// Kind distinguishes elements whose text lives in a value attribute from
// elements whose text is their content.
type Kind int

const (
	// KindDisplay is a passive element (label, div, span, link).
	KindDisplay Kind = iota
	// KindInput is an interactive element (input, button).
	KindInput
)

// Element is one keyed UI element.
type Element struct {
	ID       string
	Kind     Kind
	Type     string // input type, e.g. "password", "text", "button"
	Content  string // display text
	Value    string // input value
	Href     string
	Classes  []string
	Hidden   bool
	Disabled bool
}

// Text returns the element's visible text for its kind.
func (e Element) Text() string {
	if e.Kind == KindInput {
		return e.Value
	}
	return e.Content
}

// HasClass reports whether the element carries class cls.
func (e Element) HasClass(cls string) bool {
	return slices.Contains(e.Classes, cls)
}

// Navigator performs page navigations (location changes).
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

// Navigate calls f(target).
func (f NavigatorFunc) Navigate(target string) { f(target) }

// Page is the in-memory document a portal session renders into.
// It is not safe for concurrent use; mutate it only from the session's loop.
type Page struct {
	path     string
	elements map[string]*Element
	order    []string
	nav      Navigator
	version  uint64
}

// New creates an empty page at path. nav may be nil.
func New(path string, nav Navigator) *Page {
	return &Page{
		path:     path,
		elements: make(map[string]*Element),
		nav:      nav,
	}
}

// Path returns the page's location.
func (p *Page) Path() string {
	return p.path
}

// Version increases on every mutation.
func (p *Page) Version() uint64 {
	return p.version
}

// Upsert inserts el or replaces the element with the same ID, keeping its position.
func (p *Page) Upsert(el Element) {
	if _, exists := p.elements[el.ID]; !exists {
		p.order = append(p.order, el.ID)
	}
	el.Classes = slices.Clone(el.Classes)
	p.elements[el.ID] = &el
	p.version++
}

// UpsertAfter is like Upsert but places a new element directly after anchor.
// A missing anchor appends.
func (p *Page) UpsertAfter(anchor string, el Element) {
	if _, exists := p.elements[el.ID]; exists {
		p.Upsert(el)
		return
	}
	idx := slices.Index(p.order, anchor)
	if idx < 0 {
		p.Upsert(el)
		return
	}
	p.order = slices.Insert(p.order, idx+1, el.ID)
	el.Classes = slices.Clone(el.Classes)
	p.elements[el.ID] = &el
	p.version++
}

// Get returns a copy of the element with id.
func (p *Page) Get(id string) (Element, bool) {
	el, ok := p.elements[id]
	if !ok {
		return Element{}, false
	}
	cp := *el
	cp.Classes = slices.Clone(el.Classes)
	return cp, true
}

// Has reports whether an element with id exists.
func (p *Page) Has(id string) bool {
	_, ok := p.elements[id]
	return ok
}

// SetContent replaces the content of an existing element.
// It returns false when the element does not exist.
func (p *Page) SetContent(id, content string) bool {
	el, ok := p.elements[id]
	if !ok {
		return false
	}
	el.Content = content
	p.version++
	return true
}

// SetValue replaces the value of an existing element.
func (p *Page) SetValue(id, value string) bool {
	el, ok := p.elements[id]
	if !ok {
		return false
	}
	el.Value = value
	p.version++
	return true
}

// SetText replaces the text of an existing element: the value of inputs,
// the content of everything else.
func (p *Page) SetText(id, text string) bool {
	el, ok := p.elements[id]
	if !ok {
		return false
	}
	if el.Kind == KindInput {
		el.Value = text
	} else {
		el.Content = text
	}
	p.version++
	return true
}

// Remove deletes the element with id.
func (p *Page) Remove(id string) bool {
	if _, ok := p.elements[id]; !ok {
		return false
	}
	delete(p.elements, id)
	p.order = slices.DeleteFunc(p.order, func(s string) bool { return s == id })
	p.version++
	return true
}

// RemovePrefix deletes every element whose id starts with prefix.
func (p *Page) RemovePrefix(prefix string) int {
	n := 0
	for _, id := range slices.Clone(p.order) {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			p.Remove(id)
			n++
		}
	}
	return n
}

// IDs returns element ids in insertion order.
func (p *Page) IDs() []string {
	return slices.Clone(p.order)
}

// Elements returns copies of all elements in insertion order.
func (p *Page) Elements() []Element {
	out := make([]Element, 0, len(p.order))
	for _, id := range p.order {
		el, _ := p.Get(id)
		out = append(out, el)
	}
	return out
}

// Navigate hands target to the page's Navigator.
func (p *Page) Navigate(target string) {
	if p.nav != nil {
		p.nav.Navigate(target)
	}
}

// ViewPassword toggles an input between "password" and "text".
func (p *Page) ViewPassword(id string) bool {
	el, ok := p.elements[id]
	if !ok {
		return false
	}
	if el.Type == "password" {
		el.Type = "text"
	} else {
		el.Type = "password"
	}
	p.version++
	return true
}

// SwitchVisibility shows or hides every element with class cls. Hidden inputs
// are disabled so they are not submitted.
func (p *Page) SwitchVisibility(cls string, visible bool) int {
	n := 0
	for _, id := range p.order {
		el := p.elements[id]
		if !el.HasClass(cls) {
			continue
		}
		el.Hidden = !visible
		if el.Kind == KindInput {
			el.Disabled = !visible
		}
		n++
	}
	if n > 0 {
		p.version++
	}
	return n
}
