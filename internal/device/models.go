package device

import (
	"fmt"
	"net/url"
)

// Menu is the bootstrap payload returned by /menu.json.
type Menu struct {
	Brand    string     `json:"brand"`
	BrandURI string     `json:"brandUri,omitempty"`
	Language string     `json:"language"`
	Elements []MenuItem `json:"elements"`
}

// MenuItem is one navigation entry.
type MenuItem struct {
	Href string `json:"href"`
	ID   string `json:"id"`
	Name string `json:"name"`

	// Visible is absent on older firmware; nil means visible.
	Visible *bool `json:"visible,omitempty"`
}

// IsVisible reports whether the item should be shown.
func (m MenuItem) IsVisible() bool {
	return m.Visible == nil || *m.Visible
}

// ScanStatus is the payload returned by /wifi/stations.json.
type ScanStatus struct {
	Failed   bool      `json:"failed,omitempty"`
	Finished bool      `json:"finished"`
	Reason   string    `json:"reason,omitempty"`
	Networks []Network `json:"networks,omitempty"`
}

// Network is one scan result entry.
type Network struct {
	SSID      string `json:"ssid"`
	RSSI      int    `json:"rssi"`
	Channel   int    `json:"channel"`
	Encrypted bool   `json:"encrypted"`
	Hidden    bool   `json:"hidden"`
	BSSID     string `json:"bssid,omitempty"`
}

// WiFiState is the payload returned by /wifi/state.json.
type WiFiState struct {
	SSID      string `json:"ssid"`
	Connected bool   `json:"connected,omitempty"`
	Failed    bool   `json:"failed,omitempty"`
	Reason    string `json:"reason,omitempty"`
	LocalIP   string `json:"local_ip,omitempty"`
}

// Info is the payload returned by /ewc/info.json.
// The firmware serializes numbers as strings, so every field is a string.
type Info struct {
	Version    string `json:"version"`
	EstabSSID  string `json:"estab_ssid"`
	WiFiMode   string `json:"wifi_mode"`
	WiFiStatus string `json:"wifi_status"`
	LocalIP    string `json:"local_ip"`
	Gateway    string `json:"gateway"`
	Netmask    string `json:"netmask"`
	SoftAPIP   string `json:"softApIp"`
	APMAC      string `json:"ap_mac"`
	StaMAC     string `json:"sta_mac"`
	Channel    string `json:"channel"`
	DBm        string `json:"dbm"`
	ChipID     string `json:"chip_id"`
	CPUFreq    string `json:"cpu_freq"`
	FlashSize  string `json:"flash_size"`
	FreeHeap   string `json:"free_heap"`
}

// Credentials are the station credentials posted to /wifi/config/save.
type Credentials struct {
	SSID       string
	Passphrase string

	// StationIP optionally requests a static address.
	StationIP string
}

// ToFormData converts the credentials to the form the device expects.
func (c *Credentials) ToFormData() url.Values {
	data := url.Values{}
	data.Set("ssid", c.SSID)
	data.Set("passphrase", c.Passphrase)
	if c.StationIP != "" {
		data.Set("stationIP", c.StationIP)
	}
	return data
}

// CleanJSONResponse extracts the first complete JSON object or array from data.
//
// Firmware built with an undersized JSON buffer occasionally appends stray bytes
// after the document:
//
//	{"ssid":"home","connected":true}\x00\x00
//
// Everything after the matching closing bracket is dropped.
func CleanJSONResponse(data []byte) ([]byte, error) {
	start := -1
	for i, b := range data {
		if b == '{' || b == '[' {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, fmt.Errorf("no JSON document found in response")
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(data); i++ {
		b := data[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return data[start : i+1], nil
			}
		}
	}

	return nil, fmt.Errorf("unclosed JSON document in response")
}
