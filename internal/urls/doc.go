// Package urls centralizes the paths of the EWC device HTTP API.
//
// Every request the portal issues, and every page it navigates to, is named
// here so the scheduler, poll controllers, simulator and CLI agree on the
// same contract.
package urls
