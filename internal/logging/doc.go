// Package logging provides structured logging for the portal client and simulator.
//
// This package wraps a zap logger with package-level helpers. Logging is silent
// by default so CLI output stays clean; set EWC_LOG_LEVEL (or pass --log-level)
// to enable it.
//
// # Log Levels
//
//   - Debug: every fetch, dispatch and timer arm
//   - Info: poll state transitions, navigations, simulator requests
//   - Warn: skipped dispatches (transport or parse failures, renderer errors)
//   - Error: panics recovered on the loop, startup failures
//
// # Specialized Logging
//
//	logging.LogFetch(sessionID, "/wifi/state.json", 200, 42*time.Millisecond)
//	logging.LogDispatch(sessionID, "/wifi/state.json", "wifistate", err)
//	logging.LogTransition("connect", "Connecting", "Connected", attempts)
//	logging.LogNavigation("/ewc/info", "connected")
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
