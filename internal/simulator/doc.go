// Package simulator provides a scripted stand-in for an EWC device.
//
// The simulator serves the same HTTP/JSON API the portal talks to, with
// Basic Auth, a scan that reports a configurable number of "not finished"
// responses before its result, and connection attempts that settle after a
// configurable number of polls. It backs the ewc-sim command and the
// integration tests.
//
// # Connection rules
//
// A connect attempt fails with "network not found" for an SSID that is not in
// the scan list, and with "wrong password" when the network is encrypted and
// the passphrase is shorter than eight characters. Otherwise it connects and
// reports the requested static address, or 192.168.1.50.
//
// # Firmware quirks
//
// With TrailingJunk set, every JSON document is followed by NUL bytes, the
// way firmware with an undersized response buffer behaves.
package simulator
