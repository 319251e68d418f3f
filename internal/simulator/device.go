package simulator

import (
	"fmt"
	"slices"
	"sync"

	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/i18n"
)

// minPassphraseLen is the WPA2 minimum; shorter passphrases fail to connect
// to encrypted networks.
const minPassphraseLen = 8

// DefaultNetworks is the scan result served when Config.Networks is empty.
var DefaultNetworks = []device.Network{
	{SSID: "home", RSSI: -48, Channel: 6, Encrypted: true, BSSID: "a4:2b:b0:11:22:33"},
	{SSID: "guest", RSSI: -71, Channel: 1, BSSID: "a4:2b:b0:11:22:34"},
	{SSID: "workshop", RSSI: -86, Channel: 11, Encrypted: true, BSSID: "60:e3:27:aa:bb:cc"},
	{SSID: "", RSSI: -93, Channel: 11, Encrypted: true, Hidden: true, BSSID: "60:e3:27:aa:bb:cd"},
}

// DefaultLanguages is the language table served at /languages.json.
var DefaultLanguages = i18n.Table{
	"menu_wifi":        {"en": "WiFi", "de": "WLAN"},
	"menu_info":        {"en": "Info", "de": "Info"},
	"menu_restart":     {"en": "Restart", "de": "Neustart"},
	"title_wifi":       {"en": "WiFi setup", "de": "WLAN einrichten"},
	"title_info":       {"en": "Device info", "de": "Geräteinfo"},
	"label_ssid":       {"en": "Network", "de": "Netzwerk"},
	"label_passphrase": {"en": "Password", "de": "Passwort"},
	"btn_save":         {"en": "Save", "de": "Speichern"},
}

// Device is the simulated device state. It is safe for concurrent use.
type Device struct {
	mu  sync.Mutex
	cfg Config

	scanPolls int

	state        device.WiFiState
	pending      *device.Credentials
	connectPolls int
	restarts     int
}

// NewDevice creates a device from cfg.
func NewDevice(cfg Config) *Device {
	if len(cfg.Networks) == 0 {
		cfg.Networks = DefaultNetworks
	}
	if cfg.Language == "" {
		cfg.Language = i18n.DefaultLanguage
	}
	return &Device{cfg: cfg}
}

// Menu returns the bootstrap menu.
func (d *Device) Menu() device.Menu {
	hidden := false
	return device.Menu{
		Brand:    d.cfg.Brand(),
		BrandURI: "/",
		Language: d.cfg.Language,
		Elements: []device.MenuItem{
			{Href: "/wifi/setup", ID: "menu_wifi", Name: "WiFi"},
			{Href: "/ewc/info", ID: "menu_info", Name: "Info"},
			{Href: "/device/restart", ID: "menu_restart", Name: "Restart"},
			{Href: "/logging/setup", ID: "menu_logging", Name: "Logging", Visible: &hidden},
		},
	}
}

// Scan returns the next scan status. Each scan reports ScanSteps unfinished
// responses, then the result; the request after a result starts a new scan.
func (d *Device) Scan() device.ScanStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cfg.FailScan {
		return device.ScanStatus{Failed: true, Finished: true, Reason: "radio busy"}
	}
	if d.scanPolls < d.cfg.ScanSteps {
		d.scanPolls++
		return device.ScanStatus{}
	}
	d.scanPolls = 0
	return device.ScanStatus{Finished: true, Networks: slices.Clone(d.cfg.Networks)}
}

// Save starts a connection attempt with creds.
func (d *Device) Save(creds device.Credentials) error {
	if err := device.ValidateSSID(creds.SSID); err != nil {
		return err
	}
	if err := device.ValidateStationIP(creds.StationIP); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = &creds
	d.connectPolls = 0
	d.state = device.WiFiState{SSID: creds.SSID}
	return nil
}

// State returns the connection status, advancing a pending attempt by one step.
func (d *Device) State() device.WiFiState {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil {
		return d.state
	}
	if d.connectPolls < d.cfg.ConnectSteps {
		d.connectPolls++
		return d.state
	}

	creds := d.pending
	d.pending = nil
	d.state = d.resolve(creds)
	return d.state
}

func (d *Device) resolve(creds *device.Credentials) device.WiFiState {
	idx := slices.IndexFunc(d.cfg.Networks, func(n device.Network) bool { return n.SSID == creds.SSID })
	if idx < 0 {
		return device.WiFiState{SSID: creds.SSID, Failed: true, Reason: "network not found"}
	}
	if d.cfg.Networks[idx].Encrypted && len(creds.Passphrase) < minPassphraseLen {
		return device.WiFiState{SSID: creds.SSID, Failed: true, Reason: "wrong password"}
	}
	ip := creds.StationIP
	if ip == "" {
		ip = "192.168.1.50"
	}
	return device.WiFiState{SSID: creds.SSID, Connected: true, LocalIP: ip}
}

// Disconnect drops the station connection.
func (d *Device) Disconnect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = nil
	d.state = device.WiFiState{}
}

// Restart resets all runtime state.
func (d *Device) Restart() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = nil
	d.state = device.WiFiState{}
	d.scanPolls = 0
	d.restarts++
}

// Restarts returns how many times the device was restarted.
func (d *Device) Restarts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.restarts
}

// Info returns the device information page data.
func (d *Device) Info() device.Info {
	d.mu.Lock()
	defer d.mu.Unlock()

	info := device.Info{
		Version:    "ewc-sim 1.0",
		WiFiMode:   "AP",
		WiFiStatus: "idle",
		SoftAPIP:   "192.168.4.1",
		APMAC:      "5e:cf:7f:00:00:01",
		StaMAC:     "5c:cf:7f:00:00:01",
		ChipID:     "1234567",
		CPUFreq:    "80",
		FlashSize:  "4194304",
		FreeHeap:   "31416",
	}
	if d.state.Connected {
		info.WiFiMode = "AP_STA"
		info.WiFiStatus = "connected"
		info.EstabSSID = d.state.SSID
		info.LocalIP = d.state.LocalIP
		info.Gateway = "192.168.1.1"
		info.Netmask = "255.255.255.0"
		for _, n := range d.cfg.Networks {
			if n.SSID == d.state.SSID {
				info.Channel = fmt.Sprint(n.Channel)
				info.DBm = fmt.Sprint(n.RSSI)
			}
		}
	}
	return info
}

// Languages returns the language table.
func (d *Device) Languages() i18n.Table {
	return DefaultLanguages
}
