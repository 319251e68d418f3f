package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name       string
		entry      *zeroconf.ServiceEntry
		wantNil    bool
		wantChipID string
		wantIP     string
		wantPort   int
	}{
		{
			name: "default hostname with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "ewc-a1b2c3.local.",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.4.1")},
			},
			wantChipID: "a1b2c3",
			wantIP:     "192.168.4.1",
			wantPort:   80,
		},
		{
			name: "upper case chip id without trailing dot",
			entry: &zeroconf.ServiceEntry{
				HostName: "ewc-00FF12.local",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantChipID: "00ff12",
			wantIP:     "10.0.0.5",
			wantPort:   8080,
		},
		{
			name: "no port defaults to 80",
			entry: &zeroconf.ServiceEntry{
				HostName: "ewc-1.local",
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantChipID: "1",
			wantIP:     "172.16.0.1",
			wantPort:   80,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				HostName: "ewc-beef.local",
				Port:     80,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantChipID: "beef",
			wantIP:     "fe80::1",
			wantPort:   80,
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "ewc-beef.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantChipID: "beef",
			wantIP:     "192.168.1.50",
			wantPort:   80,
		},
		{
			name: "other http service",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local",
				Port:     80,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name:    "empty hostname",
			entry:   &zeroconf.ServiceEntry{AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")}},
			wantNil: true,
		},
		{
			name:    "no address",
			entry:   &zeroconf.ServiceEntry{HostName: "ewc-a1.local"},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}
			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil device")
			}
			if device.ChipID != tt.wantChipID {
				t.Errorf("device.ChipID = %v, want %v", device.ChipID, tt.wantChipID)
			}
			if device.IP != tt.wantIP {
				t.Errorf("device.IP = %v, want %v", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("device.Port = %v, want %v", device.Port, tt.wantPort)
			}
			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("device.DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestScanner_AnyHost(t *testing.T) {
	scanner := NewScanner()
	scanner.AnyHost = true

	device := scanner.parseServiceEntry(&zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "Garden pump"},
		HostName:      "garden-pump.local.",
		AddrIPv4:      []net.IP{net.ParseIP("192.168.1.77")},
	})
	if device == nil {
		t.Fatal("AnyHost scanner dropped a custom hostname")
	}
	if device.ChipID != "" || device.Instance != "Garden pump" {
		t.Errorf("device = %+v", device)
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	device := NewScanner().parseServiceEntry(&zeroconf.ServiceEntry{
		HostName: "ewc-a1b2c3.local",
		AddrIPv4: []net.IP{net.ParseIP("192.168.4.1")},
		Text:     []string{"path=/", "flag", "version=1.0=beta"},
	})
	if device == nil {
		t.Fatal("parseServiceEntry() = nil")
	}

	expected := map[string]string{"path": "/", "flag": "", "version": "1.0=beta"}
	if len(device.Metadata) != len(expected) {
		t.Errorf("device.Metadata has %d entries, want %d", len(device.Metadata), len(expected))
	}
	for key, want := range expected {
		if got := device.GetMetadata(key); got != want {
			t.Errorf("GetMetadata(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
	if scanner.AnyHost {
		t.Error("AnyHost should default to false")
	}
}

func TestHostPattern(t *testing.T) {
	tests := []struct {
		hostname    string
		shouldMatch bool
	}{
		{"ewc-a1b2c3.local", true},
		{"ewc-a1b2c3.local.", true},
		{"ewc-.local", false},
		{"ewc-xyz.local", false},
		{"EWC-a1.local", false},
		{"ewc-a1b2c3", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.hostname, func(t *testing.T) {
			if got := hostPattern.MatchString(tt.hostname); got != tt.shouldMatch {
				t.Errorf("hostPattern.MatchString(%q) = %v, want %v", tt.hostname, got, tt.shouldMatch)
			}
		})
	}
}
