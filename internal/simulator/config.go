package simulator

import (
	"github.com/muurk/ewcportal/internal/device"
)

// Config holds the simulator configuration.
type Config struct {
	Host     string
	Port     int
	LogLevel string

	// Username and Password protect every endpoint with HTTP Basic Auth.
	// An empty Username disables authentication.
	Username string
	Password string

	// ScanSteps is how many "not finished" responses a scan reports.
	ScanSteps int
	// ConnectSteps is how many "connecting" responses a connect attempt reports.
	ConnectSteps int
	// FailScan makes every scan report failure.
	FailScan bool

	Language  string
	BrandName string
	Networks  []device.Network

	// TrailingJunk appends NUL bytes after every JSON document, like
	// firmware with an undersized response buffer.
	TrailingJunk bool
}

// DefaultConfig returns the configuration used by ewc-sim without flags.
func DefaultConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8080,
		Username:     "admin",
		ScanSteps:    2,
		ConnectSteps: 3,
		Language:     "en",
	}
}

// Brand returns the brand shown in the menu.
func (c Config) Brand() string {
	if c.BrandName == "" {
		return "EWC Simulator"
	}
	return c.BrandName
}
