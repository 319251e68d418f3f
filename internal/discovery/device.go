package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device is an EWC device found on the network.
type Device struct {
	// ChipID is the hex chip id from the default hostname (e.g. "a1b2c3").
	ChipID string

	// Hostname is the mDNS hostname (e.g. "ewc-a1b2c3.local.")
	Hostname string

	// Instance is the advertised service instance name.
	Instance string

	// IP is the preferred address, IPv4 when available.
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata holds the TXT records.
	Metadata map[string]string

	DiscoveredAt time.Time
}

func (d *Device) String() string {
	return fmt.Sprintf("EWC device %s (%s) at %s", d.ChipID, d.Hostname, net.JoinHostPort(d.IP, strconv.Itoa(d.Port)))
}

// BaseURL returns the HTTP base URL for the device.
func (d *Device) BaseURL() string {
	return "http://" + net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
