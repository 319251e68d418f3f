package i18n

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/tidwall/btree"
	"golang.org/x/text/language"

	"github.com/muurk/ewcportal/internal/page"
)

// DefaultLanguage is the language the page markup is authored in.
const DefaultLanguage = "en"

// Table maps an element key to its text per language code.
type Table map[string]map[string]string

type entry struct {
	key   string
	texts map[string]string
}

// Overlay substitutes localized strings into keyed page elements.
// Like the page it renders into, it is owned by one loop.
type Overlay struct {
	page  *page.Page
	table *btree.BTreeG[entry]
	code  string
	tag   language.Tag
}

// New creates an overlay for p with the default language selected.
func New(p *page.Page) *Overlay {
	return &Overlay{
		page: p,
		table: btree.NewBTreeG(func(a, b entry) bool {
			return a.key < b.key
		}),
		code: DefaultLanguage,
		tag:  language.English,
	}
}

// SetLanguage selects the language used for lookups. code must be a valid
// BCP 47 tag.
func (o *Overlay) SetLanguage(code string) error {
	tag, err := language.Parse(code)
	if err != nil {
		return fmt.Errorf("invalid language %q: %w", code, err)
	}
	o.code = code
	o.tag = tag
	return nil
}

// Language returns the selected language code.
func (o *Overlay) Language() string {
	return o.code
}

// IsDefault reports whether the selected language is the authoring language.
func (o *Overlay) IsDefault() bool {
	base, _ := o.tag.Base()
	return base.String() == DefaultLanguage
}

// ApplyLanguage merges t into the language table and re-applies every key it
// contains, in key order. A key in t replaces that key's texts outright; keys
// absent from t are kept. It returns how many keys were applied.
func (o *Overlay) ApplyLanguage(t Table) int {
	for key, texts := range t {
		o.table.Set(entry{key: key, texts: maps.Clone(texts)})
	}

	applied := 0
	o.table.Scan(func(e entry) bool {
		if _, updated := t[e.key]; updated && o.UpdateLanguageKey(e.key) {
			applied++
		}
		return true
	})
	return applied
}

// UpdateLanguageKey writes the localized text for key into the element with
// the same id. It reports false, and changes nothing, when the key, the
// language or the element is missing.
func (o *Overlay) UpdateLanguageKey(key string) bool {
	text, ok := o.Lookup(key)
	if !ok {
		return false
	}
	return o.page.SetText(key, text)
}

// UpdateLanguageKeys applies UpdateLanguageKey to keys in order and returns
// how many were applied.
func (o *Overlay) UpdateLanguageKeys(keys []string) int {
	applied := 0
	for _, key := range keys {
		if o.UpdateLanguageKey(key) {
			applied++
		}
	}
	return applied
}

// ApplyAll re-applies every key in the table.
func (o *Overlay) ApplyAll() int {
	applied := 0
	o.table.Scan(func(e entry) bool {
		if o.UpdateLanguageKey(e.key) {
			applied++
		}
		return true
	})
	return applied
}

// Lookup returns the text for key in the selected language, falling back to
// the base language ("de" for "de-AT").
func (o *Overlay) Lookup(key string) (string, bool) {
	e, ok := o.table.Get(entry{key: key})
	if !ok {
		return "", false
	}
	if text, ok := e.texts[o.code]; ok {
		return text, true
	}
	if text, ok := e.texts[o.tag.String()]; ok {
		return text, true
	}
	base, _ := o.tag.Base()
	text, ok := e.texts[base.String()]
	return text, ok
}

// Keys returns the table keys in order.
func (o *Overlay) Keys() []string {
	keys := make([]string, 0, o.table.Len())
	o.table.Scan(func(e entry) bool {
		keys = append(keys, e.key)
		return true
	})
	return keys
}

// Render is the renderer for /languages.json.
func (o *Overlay) Render(payload json.RawMessage, uri string) error {
	var t Table
	if err := json.Unmarshal(payload, &t); err != nil {
		return fmt.Errorf("decode language table from %s: %w", uri, err)
	}
	o.ApplyLanguage(t)
	return nil
}
