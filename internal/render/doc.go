// Package render provides the renderer registry used by the request scheduler.
//
// Renderers are registered by name and validated at registration time. The
// scheduler dispatches every successfully fetched payload by name; an unknown
// name yields an *UnknownRendererError with a spelling suggestion instead of
// failing silently.
package render
