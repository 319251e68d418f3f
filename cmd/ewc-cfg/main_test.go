package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/muurk/ewcportal/internal/config"
	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/page"
	"github.com/muurk/ewcportal/internal/poll"
	"github.com/muurk/ewcportal/internal/portal"
	"github.com/muurk/ewcportal/internal/simulator"
)

func newTestTarget(t *testing.T, cfg simulator.Config) (*target, *simulator.Device) {
	t.Helper()
	sim := simulator.NewDevice(cfg)
	srv := httptest.NewServer(simulator.NewHandler(sim))
	t.Cleanup(srv.Close)

	client := device.NewClientWithURL(srv.URL)
	client.SetAuth(cfg.Username, cfg.Password)

	settings := config.DefaultSettings()
	settings.PollInterval = 5 * time.Millisecond
	settings.FallbackDelay = time.Hour

	return &target{
		host:     "sim",
		settings: settings,
		registry: config.NewRegistry(),
		client:   client,
	}, sim
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSuggestSSID(t *testing.T) {
	networks := []poll.ScanEntry{
		{Network: device.Network{SSID: "HomeNet"}},
		{Network: device.Network{SSID: "Guest"}},
		{Network: device.Network{SSID: ""}},
	}

	tests := []struct {
		ssid string
		want string
	}{
		{"homenet", "HomeNet"},
		{"HomeNt", "HomeNet"},
		{"Gues", "Guest"},
		{"Workshop-5G", ""},
	}
	for _, tt := range tests {
		if got := suggestSSID(tt.ssid, networks); got != tt.want {
			t.Errorf("suggestSSID(%q) = %q, want %q", tt.ssid, got, tt.want)
		}
	}
}

func TestPromptPassphrase_NonTerminal(t *testing.T) {
	var out bytes.Buffer
	got, err := promptPassphrase(strings.NewReader("correct horse\r\n"), &out, "home")
	if err != nil {
		t.Fatalf("promptPassphrase() error = %v", err)
	}
	if got != "correct horse" {
		t.Errorf("passphrase = %q", got)
	}
	if !strings.Contains(out.String(), "Passphrase for home") {
		t.Errorf("prompt = %q", out.String())
	}
}

func TestScanNetworks(t *testing.T) {
	tgt, _ := newTestTarget(t, simulator.DefaultConfig())

	networks, err := scanNetworks(testContext(t), tgt)
	if err != nil {
		t.Fatalf("scanNetworks() error = %v", err)
	}
	home, ok := findNetwork(networks, "home")
	if !ok {
		t.Fatalf("home not in %v", networks)
	}
	if !home.Encrypted {
		t.Error("home should be encrypted")
	}
	if _, ok := findNetwork(networks, "nope"); ok {
		t.Error("findNetwork() matched an unknown ssid")
	}
}

func TestScanNetworks_Failed(t *testing.T) {
	cfg := simulator.DefaultConfig()
	cfg.FailScan = true
	tgt, _ := newTestTarget(t, cfg)

	_, err := scanNetworks(testContext(t), tgt)
	if err == nil || !strings.Contains(err.Error(), "scan failed") {
		t.Errorf("scanNetworks() error = %v, want scan failure", err)
	}
}

func TestSessionRun_FollowsConnection(t *testing.T) {
	tgt, _ := newTestTarget(t, simulator.DefaultConfig())
	ctx := testContext(t)

	if err := tgt.client.Connect(ctx, &device.Credentials{SSID: "home", Passphrase: "correct horse"}); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	r, err := startSession(ctx, tgt, page.NewStateWidget, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.close()

	if err := r.wait(ctx, (*portal.Session).WatchState); err != nil {
		t.Fatalf("wait() error = %v", err)
	}
	snap, err := r.snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.ConnectState != poll.Connected {
		t.Errorf("ConnectState = %s, want connected", snap.ConnectState)
	}
	if snap.Busy() {
		t.Error("settled session should not be busy")
	}
	if r.fetcher.Err() != nil {
		t.Errorf("fetch error = %v", r.fetcher.Err())
	}
}

func TestRecordingFetcher_KeepsFirstError(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	f := &recordingFetcher{client: device.NewClientWithURL(url)}
	ctx := testContext(t)
	_, first := f.FetchJSON(ctx, "/menu.json")
	_, _ = f.FetchJSON(ctx, "/wifi/state.json")

	if first == nil {
		t.Fatal("fetch from a closed server should fail")
	}
	if !errors.Is(f.Err(), first) {
		t.Errorf("Err() = %v, want first error %v", f.Err(), first)
	}
}
