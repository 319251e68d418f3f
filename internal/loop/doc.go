// Package loop provides the cooperative, single-threaded execution model used by
// the portal core.
//
// All scheduler and poll-controller state is mutated only from tasks running on
// a Runner. Blocking work (network calls) is started with Spawn and runs off the
// loop; its continuation is posted back and runs to completion without
// preemption. Timers created with AfterFunc also deliver their callbacks as loop
// tasks, so code between suspension points never needs a lock.
//
// # Runners
//
//   - Loop: the production runner, backed by one goroutine draining a task queue.
//   - Manual: a deterministic runner with a virtual clock. Spawned work runs
//     inline and timers fire only when the clock is advanced.
//
// # Timer Semantics
//
// A Timer that has been stopped never runs its callback, even if the underlying
// clock already fired and the callback is queued. Poll controllers rely on this
// to guarantee that a superseded timer cannot trigger a stale transition.
package loop
