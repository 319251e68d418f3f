// Package page holds the UI state a portal session renders into.
//
// A Page is an ordered set of keyed elements. Display elements carry Content,
// input elements carry Value; localization and renderers use SetText so they
// do not need to know which. Navigation is delegated to a Navigator so the
// same renderers drive a terminal UI, a test recorder, or anything else.
//
// Layouts for the device pages (WiFi setup, standalone connection status,
// device info) live here too, so renderers can rely on well-known element ids.
package page
