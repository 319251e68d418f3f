package config

import "time"

// Registry represents the entire device registry file.
// It stores user-defined metadata for the devices the CLI has talked to.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by host (IP or mDNS name)
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single EWC device.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last known IP address
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time
	LastSSID string    `yaml:"last_ssid,omitempty"` // Network the device was last told to join
	Language string    `yaml:"language,omitempty"`  // Language the portal reported
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool   `yaml:"auto_discover"`            // Discover devices when --device is not given
	DiscoverTimeout int    `yaml:"discover_timeout"`         // mDNS discovery timeout in seconds
	DefaultDevice   string `yaml:"default_device,omitempty"` // Host used when --device is not given
	// Passwords are NEVER stored in the registry.
}

func defaultPreferences() *Preferences {
	return &Preferences{
		AutoDiscover:    true,
		DiscoverTimeout: 5,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// GetDevice retrieves device metadata by host.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(host string) *Device {
	return r.Devices[host]
}

// EnsureDevice returns the entry for host, creating it if needed.
func (r *Registry) EnsureDevice(host string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if device, exists := r.Devices[host]; exists {
		return device
	}
	device := &Device{}
	r.Devices[host] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp and IP for a device.
func (r *Registry) UpdateDeviceLastSeen(host, ip string) {
	device := r.EnsureDevice(host)
	device.LastSeen = time.Now()
	device.LastIP = ip
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(host, nickname string) {
	r.EnsureDevice(host).Nickname = nickname
}

// RecordConnect remembers the network a device was asked to join.
func (r *Registry) RecordConnect(host, ssid string) {
	r.EnsureDevice(host).LastSSID = ssid
}

// RecordLanguage remembers the language a device's portal reported.
func (r *Registry) RecordLanguage(host, language string) {
	r.EnsureDevice(host).Language = language
}

// FindByNickname returns the host whose nickname matches.
func (r *Registry) FindByNickname(nickname string) (string, bool) {
	for host, d := range r.Devices {
		if d.Nickname != "" && d.Nickname == nickname {
			return host, true
		}
	}
	return "", false
}
