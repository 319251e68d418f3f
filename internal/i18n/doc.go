// Package i18n overlays localized text onto a rendered page.
//
// The language table is keyed by element id, then by language code. Lookups
// are best effort: a missing key, language or element is a no-op reported as
// false, never an error.
package i18n
