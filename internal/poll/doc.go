// Package poll contains the state machines that follow long-running device
// operations.
//
// ScanPoller and ConnectPoller are renderers: each status response advances
// the machine and, while the operation is still running, arms a timer that
// re-enqueues the same status check through the scheduler. Timers live in
// TimerSlots, one per purpose, and arming a slot always cancels the timer it
// held, so a superseded poll or fallback never fires.
package poll
