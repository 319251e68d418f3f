package device

import (
	"strings"
	"testing"
)

func TestValidatePassphrase(t *testing.T) {
	tests := []struct {
		name      string
		pass      string
		encrypted bool
		wantErr   bool
	}{
		{"open empty", "", false, false},
		{"open with passphrase", "secret123", false, true},
		{"wpa ok", "correct horse", true, false},
		{"wpa short", "short", true, true},
		{"wpa long", strings.Repeat("x", 64), true, true},
		{"raw psk", strings.Repeat("ab", 32), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassphrase(tt.pass, tt.encrypted)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePassphrase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidationError(err) {
				t.Errorf("error %v is not a validation error", err)
			}
		})
	}
}

func TestCredentials_Validate(t *testing.T) {
	ok := &Credentials{SSID: "home", Passphrase: "correct horse", StationIP: "192.168.1.50"}
	if errs := ok.Validate(true); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}

	bad := &Credentials{SSID: strings.Repeat("s", 33), Passphrase: "x", StationIP: "fe80::1"}
	if errs := bad.Validate(true); len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
}
