package device

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"syscall"
	"testing"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"clean object", `{"a":1}`, `{"a":1}`, false},
		{"leading whitespace", "  \n{\"a\":1}", `{"a":1}`, false},
		{"trailing nulls", "{\"a\":1}\x00\x00", `{"a":1}`, false},
		{"braces in string", `{"a":"}{"}tail`, `{"a":"}{"}`, false},
		{"escaped quote", `{"a":"x\"}"}junk`, `{"a":"x\"}"}`, false},
		{"nested", `{"n":[{"s":"x"}]}x`, `{"n":[{"s":"x"}]}`, false},
		{"array", `[1,2,[3]]]`, `[1,2,[3]]`, false},
		{"no json", `File Not Found`, "", true},
		{"unclosed", `{"a":{"b":1}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanJSONResponse([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CleanJSONResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("CleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMenuItem_IsVisible(t *testing.T) {
	var menu Menu
	data := `{"brand":"EWC","language":"de","elements":[
		{"href":"/wifi/setup","id":"menu_wifi","name":"WiFi"},
		{"href":"/logging/setup","id":"menu_log","name":"Logging","visible":false}]}`
	if err := json.Unmarshal([]byte(data), &menu); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !menu.Elements[0].IsVisible() {
		t.Error("item without visible flag should be visible")
	}
	if menu.Elements[1].IsVisible() {
		t.Error("item with visible=false should be hidden")
	}
}

func TestCredentials_ToFormData(t *testing.T) {
	creds := &Credentials{SSID: "home net", Passphrase: "p&ss", StationIP: "192.168.1.50"}
	encoded := creds.ToFormData().Encode()

	for _, want := range []string{"ssid=home+net", "passphrase=p%26ss", "stationIP=192.168.1.50"} {
		if !strings.Contains(encoded, want) {
			t.Errorf("form %q missing %q", encoded, want)
		}
	}
}

func TestClassifyNetworkError(t *testing.T) {
	if ClassifyNetworkError(nil) != nil {
		t.Error("nil error should classify to nil")
	}

	refused := ClassifyNetworkError(syscall.ECONNREFUSED)
	if refused.Type != ErrTypeConnectionRefused || !refused.Retryable {
		t.Errorf("ECONNREFUSED classified as %v", refused.Type)
	}

	generic := ClassifyNetworkError(errors.New("boom"))
	if generic.Type != ErrTypeNetwork {
		t.Errorf("generic error classified as %v", generic.Type)
	}
}

func TestDeviceError_MessagesAndHints(t *testing.T) {
	tests := []struct {
		err       error
		shortWant string
		hintWant  string
	}{
		{NewAuthError("/menu.json"), "Authentication failed", "admin"},
		{NewHTTPError("/menu.json", http.StatusNotAcceptable), "HTTP 406", "low on memory"},
		{NewParseError("/menu.json", "bad", nil), "parse", "not JSON"},
		{NewNetworkError("/menu.json", "GET request failed", errors.New("x")), "Network error", "access point"},
	}

	for _, tt := range tests {
		short := GetShortErrorMessage(tt.err)
		if !strings.Contains(short, tt.shortWant) {
			t.Errorf("GetShortErrorMessage(%v) = %q, want to contain %q", tt.err, short, tt.shortWant)
		}
		hint := GetTroubleshootingHint(tt.err)
		if !strings.Contains(hint, tt.hintWant) {
			t.Errorf("GetTroubleshootingHint(%v) = %q, want to contain %q", tt.err, hint, tt.hintWant)
		}
	}
}

func TestDeviceError_WrappedPredicates(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewAuthError("/wifi/state.json"))
	if !IsAuthError(wrapped) {
		t.Error("IsAuthError should see through wrapping")
	}
	if IsHTTPError(wrapped) {
		t.Error("auth error is not an HTTP error")
	}
	if !strings.Contains(NewAuthError("/x").Error(), "[/x]") {
		t.Error("Error() should include the URI")
	}
}
