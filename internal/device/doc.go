// Package device provides the HTTP transport to an EWC device's config server.
//
// The device exposes a small JSON API (menu, language table, scan status,
// connection state, device info) and a few form/redirect actions (save WiFi
// credentials, disconnect, restart), all optionally behind HTTP Basic Auth.
//
// # Usage Example
//
//	client := device.NewClient("192.168.4.1", 80)
//
//	raw, err := client.FetchJSON(ctx, urls.WiFiState)
//	if err != nil {
//	    fmt.Println(device.GetShortErrorMessage(err))
//	    return
//	}
//
//	var state device.WiFiState
//	_ = json.Unmarshal(raw, &state)
//
// # Caching
//
// Every request is sent with "Cache-Control: no-cache" and "Pragma: no-cache".
// Status endpoints are polled and must never be answered from a cache.
//
// # Error Handling
//
// All failures are returned as *DeviceError with an ErrorType (network, auth,
// HTTP, parse, timeout, connection refused, DNS). Use the Is* predicates and
// GetShortErrorMessage / GetTroubleshootingHint for presentation.
package device
