package device

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/muurk/ewcportal/internal/urls"
)

const mockStateResponse = `{"ssid":"home","connected":true,"failed":false,"reason":"","local_ip":"10.0.0.5"}`

func TestNewClient(t *testing.T) {
	client := NewClient("192.168.4.1", 80)

	if client.BaseURL != "http://192.168.4.1:80" {
		t.Errorf("BaseURL = %s, want http://192.168.4.1:80", client.BaseURL)
	}
	if client.Username != DefaultUsername {
		t.Errorf("Username = %s, want %s", client.Username, DefaultUsername)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
}

func TestNewClientWithURL_TrimsSlash(t *testing.T) {
	client := NewClientWithURL("http://192.168.4.1:8080/")

	if client.BaseURL != "http://192.168.4.1:8080" {
		t.Errorf("BaseURL = %s, want http://192.168.4.1:8080", client.BaseURL)
	}
}

func TestSetTimeoutAndAuth(t *testing.T) {
	client := NewClient("192.168.4.1", 80)
	client.SetTimeout(5 * time.Second)
	client.SetAuth("user", "secret")

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
	if client.Username != "user" || client.Password != "secret" {
		t.Errorf("auth = %s/%s, want user/secret", client.Username, client.Password)
	}
}

func TestFetchJSON_SendsNoCacheAndAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Method = %s, want GET", r.Method)
		}
		if r.URL.Path != urls.WiFiState {
			t.Errorf("Path = %s, want %s", r.URL.Path, urls.WiFiState)
		}
		if got := r.Header.Get("Cache-Control"); got != "no-cache" {
			t.Errorf("Cache-Control = %q, want no-cache", got)
		}
		if got := r.Header.Get("User-Agent"); !strings.HasPrefix(got, "ewcportal/") {
			t.Errorf("User-Agent = %q", got)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mockStateResponse))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	client.SetAuth("admin", "pw")

	raw, err := client.FetchJSON(context.Background(), urls.WiFiState)
	if err != nil {
		t.Fatalf("FetchJSON() error = %v", err)
	}

	var state WiFiState
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !state.Connected || state.LocalIP != "10.0.0.5" {
		t.Errorf("state = %+v", state)
	}
}

func TestFetchJSON_NoAuthWhenUsernameEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); ok {
			t.Error("Basic Auth header sent with empty username")
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	client.SetAuth("", "")

	if _, err := client.FetchJSON(context.Background(), urls.Menu); err != nil {
		t.Errorf("FetchJSON() error = %v", err)
	}
}

func TestFetchJSON_StripsTrailingBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(mockStateResponse + "\x00\x00garbage"))
	}))
	defer server.Close()

	raw, err := NewClientWithURL(server.URL).FetchJSON(context.Background(), urls.WiFiState)
	if err != nil {
		t.Fatalf("FetchJSON() error = %v", err)
	}
	if string(raw) != mockStateResponse {
		t.Errorf("raw = %s, want %s", raw, mockStateResponse)
	}
}

func TestFetchJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		checkFn func(error) bool
		kind    string
	}{
		{"unauthorized", http.StatusUnauthorized, "", IsAuthError, "auth"},
		{"not found", http.StatusNotFound, "File Not Found", IsHTTPError, "http"},
		{"server error", http.StatusInternalServerError, "", IsRetryable, "retryable"},
		{"html body", http.StatusOK, "<html>not json</html>", IsParseError, "parse"},
		{"truncated json", http.StatusOK, `{"ssid":"home"`, IsParseError, "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClientWithURL(server.URL).FetchJSON(context.Background(), urls.WiFiState)
			if err == nil {
				t.Fatal("FetchJSON() should fail")
			}
			if !tt.checkFn(err) {
				t.Errorf("error %v is not %s", err, tt.kind)
			}
		})
	}
}

func TestFetch_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClientWithURL(url).Fetch(context.Background(), urls.Menu)
	if err == nil {
		t.Fatal("Fetch() should fail against a closed server")
	}
	if !IsNetworkError(err) {
		t.Errorf("error should be network error, got %T: %v", err, err)
	}
}

func TestConnect_PostsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != urls.WiFiSave {
			t.Errorf("got %s %s, want POST %s", r.Method, r.URL.Path, urls.WiFiSave)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if r.PostForm.Get("ssid") != "home" || r.PostForm.Get("passphrase") != "hunter2" {
			t.Errorf("form = %v", r.PostForm)
		}
		if r.PostForm.Has("stationIP") {
			t.Error("stationIP should be omitted when empty")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := NewClientWithURL(server.URL).Connect(context.Background(), &Credentials{SSID: "home", Passphrase: "hunter2"})
	if err != nil {
		t.Errorf("Connect() error = %v", err)
	}
}

func TestConnect_RequiresSSID(t *testing.T) {
	client := NewClient("192.0.2.1", 80)
	if err := client.Connect(context.Background(), &Credentials{}); err == nil {
		t.Error("Connect() without ssid should fail")
	}
}

func TestDisconnect_AcceptsRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != urls.WiFiDisconnect {
			t.Errorf("Path = %s, want %s", r.URL.Path, urls.WiFiDisconnect)
		}
		w.Header().Set("Location", urls.SetupPage)
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	if err := NewClientWithURL(server.URL).Disconnect(context.Background()); err != nil {
		t.Errorf("Disconnect() error = %v", err)
	}
}

func TestRestart_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
	}))
	defer server.Close()

	err := NewClientWithURL(server.URL).Restart(context.Background())
	if !IsHTTPError(err) {
		t.Errorf("Restart() error = %v, want HTTP error", err)
	}
}
