// Package ui renders portal pages in the terminal.
//
// Printer and RenderPage produce static output for one-shot commands such as
// "ewc-cfg scan". WatchModel is a Bubble Tea model that keeps re-reading a
// session snapshot and shows the page as it changes, with a spinner while
// requests are pending.
//
// Page elements are owned by the session's loop, so the watch view never
// touches them directly: callers pass a snapshot source that copies the state
// on the loop (see SnapshotOf).
package ui
