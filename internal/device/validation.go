package device

import (
	"fmt"
	"net"
)

// WiFi limits enforced before credentials are sent.
const (
	MaxSSIDLength       = 32
	MinPassphraseLength = 8
	MaxPassphraseLength = 63
	rawPSKLength        = 64
)

// ValidateSSID validates a WiFi SSID.
// SSIDs must be non-empty and at most 32 bytes.
func ValidateSSID(ssid string) error {
	if ssid == "" {
		return NewValidationError("WiFi SSID cannot be empty")
	}
	if len(ssid) > MaxSSIDLength {
		return NewValidationError(fmt.Sprintf("WiFi SSID too long (max %d bytes): %d bytes", MaxSSIDLength, len(ssid)))
	}
	return nil
}

// ValidatePassphrase validates a passphrase for an encrypted or open network.
// WPA passphrases are 8-63 characters, or a raw 64 digit hex key.
func ValidatePassphrase(passphrase string, encrypted bool) error {
	if !encrypted {
		if passphrase != "" {
			return NewValidationError("passphrase should be empty for open networks")
		}
		return nil
	}
	if len(passphrase) == rawPSKLength && isHex(passphrase) {
		return nil
	}
	if len(passphrase) < MinPassphraseLength {
		return NewValidationError(fmt.Sprintf("passphrase too short (min %d chars): %d chars", MinPassphraseLength, len(passphrase)))
	}
	if len(passphrase) > MaxPassphraseLength {
		return NewValidationError(fmt.Sprintf("passphrase too long (max %d chars): %d chars", MaxPassphraseLength, len(passphrase)))
	}
	return nil
}

// ValidateStationIP validates an optional static IPv4 address.
func ValidateStationIP(ip string) error {
	if ip == "" {
		return nil
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return NewValidationError(fmt.Sprintf("station IP must be an IPv4 address, got %q", ip))
	}
	return nil
}

// Validate checks the credentials. Returns a slice of validation errors
// (empty if valid).
func (c *Credentials) Validate(encrypted bool) []error {
	var errs []error
	if err := ValidateSSID(c.SSID); err != nil {
		errs = append(errs, err)
	}
	if err := ValidatePassphrase(c.Passphrase, encrypted); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateStationIP(c.StationIP); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
