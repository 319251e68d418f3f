package urls

// Device JSON endpoints polled or loaded by the portal.
const (
	// Menu is the bootstrap resource: brand, language and navigation items.
	Menu = "/menu.json"

	// LegacyMenu is the menu path served by older firmware revisions.
	LegacyMenu = "/menu"

	// Languages is the language table keyed by element id, then language code.
	Languages = "/languages.json"

	// WiFiStations reports the progress and result of a network scan.
	WiFiStations = "/wifi/stations.json"

	// WiFiState reports the progress of a connection attempt.
	WiFiState = "/wifi/state.json"

	// Info reports device details (addresses, MACs, heap, firmware version).
	Info = "/ewc/info.json"
)

// Device actions.
const (
	// WiFiSave accepts a form POST with ssid and passphrase and starts a connection attempt.
	WiFiSave = "/wifi/config/save"

	// WiFiDisconnect drops the station connection and redirects to the setup page.
	WiFiDisconnect = "/wifi/disconnect"

	// Restart reboots the device.
	Restart = "/device/restart"
)

// Pages used as navigation targets.
const (
	// InfoPage is where a standalone status widget lands after a successful connect.
	InfoPage = "/ewc/info"

	// SetupPage is where a failed connect falls back to.
	SetupPage = "/wifi/setup"

	// Home is the device landing page.
	Home = "/"
)
