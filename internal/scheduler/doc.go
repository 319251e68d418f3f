// Package scheduler implements the single-flight request scheduler.
//
// Every JSON fetch a portal session makes goes through one queue. At most one
// request is in flight at a time; its completion runs back on the session's
// loop, dispatches the payload to the named renderer, clears the in-flight
// marker and drains the next request. Transport, parse and renderer failures
// are counted and logged but never stall the queue.
//
// A Scheduler is owned by one loop.Runner and is not safe for use from other
// goroutines; post work to the runner instead.
package scheduler
