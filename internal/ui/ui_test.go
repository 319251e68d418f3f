package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/page"
	"github.com/muurk/ewcportal/internal/poll"
)

func TestClampWidth(t *testing.T) {
	tests := []struct {
		width int
		err   error
		want  int
	}{
		{80, nil, 80},
		{10, nil, MinTerminalWidth},
		{400, nil, MaxContentWidth},
		{80, errors.New("not a tty"), MinTerminalWidth},
	}
	for _, tt := range tests {
		if got := ClampWidth(tt.width, tt.err); got != tt.want {
			t.Errorf("ClampWidth(%d, %v) = %d, want %d", tt.width, tt.err, got, tt.want)
		}
	}
}

func samplePage() *page.Page {
	p := page.NewWiFiSetup(nil)
	p.SetContent(page.IDHeader, "EWC")
	p.UpsertAfter(page.IDHeader, page.Element{ID: page.IDBrand, Content: "EWC", Href: "/"})
	p.UpsertAfter(page.IDBrand, page.Element{ID: "menu_wifi", Content: "WiFi", Classes: []string{navClass}})
	p.UpsertAfter("menu_wifi", page.Element{ID: "menu_hidden", Content: "Secret", Classes: []string{navClass}, Hidden: true})
	p.UpsertAfter(page.IDSSIDList, page.Element{
		ID: page.SSIDItemPrefix + "0", Kind: page.KindInput, Type: "button",
		Value: "HomeNet", Content: "80% Ch.6", Classes: []string{"slist", "encrypted"},
	})
	p.SetValue(page.IDPassphrase, "secret")
	p.SetContent(page.IDSSIDCurrent, "HomeNet: connecting...2")
	return p
}

func TestRenderPage(t *testing.T) {
	p := samplePage()
	out := RenderPage(p.Path(), p.Elements(), 80)

	for _, want := range []string{"WiFi setup", "WiFi", "HomeNet", "80% Ch.6", "connecting...2", "Save", "••••••"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderPage() missing %q", want)
		}
	}
	for _, unwanted := range []string{"Secret", "secret"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("RenderPage() should not contain %q", unwanted)
		}
	}
}

func TestPrinter_PrintError(t *testing.T) {
	var b strings.Builder
	pr := NewPrinter(&b).SetWidth(80)

	pr.PrintError("Scan failed", device.NewAuthError("/wifi/stations.json"))

	out := b.String()
	if !strings.Contains(out, "Scan failed") || !strings.Contains(out, "authentication") {
		t.Errorf("PrintError() output = %q", out)
	}
}

func TestErrorHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     []string
		unwanted []string
	}{
		{
			name:     "validation",
			err:      errors.Join(device.NewValidationError("WiFi SSID cannot be empty")),
			want:     []string{"Nothing was sent"},
			unwanted: []string{"Troubleshooting", "temporary"},
		},
		{
			name:     "auth",
			err:      device.NewAuthError("/menu.json"),
			want:     []string{"--user", "EWC_PASSWORD"},
			unwanted: []string{"temporary"},
		},
		{
			name: "parse",
			err:  device.NewParseError("/menu.json", "bad", nil),
			want: []string{"not JSON", "--log-level debug"},
		},
		{
			name: "network is retryable",
			err:  device.NewNetworkError("/menu.json", "GET request failed", errors.New("reset")),
			want: []string{"access point", "--device", "temporary"},
		},
		{
			name: "server error is retryable",
			err:  device.NewHTTPError("/menu.json", 503),
			want: []string{"HTTP error 503", "temporary"},
		},
		{
			name:     "missing page is not",
			err:      device.NewHTTPError("/menu.json", 404),
			want:     []string{"HTTP error 404"},
			unwanted: []string{"temporary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := ErrorHint(tt.err)
			for _, w := range tt.want {
				if !strings.Contains(hint, w) {
					t.Errorf("ErrorHint() = %q, want to contain %q", hint, w)
				}
			}
			for _, u := range tt.unwanted {
				if strings.Contains(hint, u) {
					t.Errorf("ErrorHint() = %q, should not contain %q", hint, u)
				}
			}
		})
	}
}

func TestPrinter_PrintSuccessKeepsOrder(t *testing.T) {
	var b strings.Builder
	NewPrinter(&b).SetWidth(80).PrintSuccess("Connected",
		Detail{Key: "SSID", Value: "HomeNet"},
		Detail{Key: "IP", Value: "192.168.1.50"},
	)

	out := b.String()
	ssid := strings.Index(out, "HomeNet")
	ip := strings.Index(out, "192.168.1.50")
	if ssid < 0 || ip < 0 || ssid > ip {
		t.Errorf("details out of order: %q", out)
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchModel_SnapshotAndKeys(t *testing.T) {
	p := samplePage()
	snap := Snapshot{
		Path:      p.Path(),
		Elements:  p.Elements(),
		ScanState: poll.ScanScanning,
		Pending:   1,
	}
	var rescans, states, disconnects int
	m := NewWatchModel(func() (Snapshot, error) { return snap, nil }, WatchActions{
		Rescan:     func() { rescans++ },
		State:      func() { states++ },
		Disconnect: func() { disconnects++ },
	})

	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("View() before first snapshot = %q", m.View())
	}

	model, cmd := m.Update(snapshotMsg{snap: snap})
	m = model.(WatchModel)
	if cmd == nil {
		t.Error("a snapshot should schedule the next refresh")
	}
	if !m.Snapshot().Busy() {
		t.Error("snapshot with a pending request should be busy")
	}
	view := m.View()
	if !strings.Contains(view, "HomeNet") || !strings.Contains(view, "scan scanning/0") {
		t.Errorf("View() = %q", view)
	}

	for _, k := range []string{"r", "s", "d"} {
		model, cmd = m.Update(keyMsg(k))
		m = model.(WatchModel)
		if cmd == nil {
			t.Errorf("key %q should trigger a refresh", k)
		}
	}
	if rescans != 1 || states != 1 || disconnects != 1 {
		t.Errorf("actions = %d/%d/%d, want 1/1/1", rescans, states, disconnects)
	}

	_, cmd = m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key should produce tea.QuitMsg")
	}
}

func TestWatchModel_SourceError(t *testing.T) {
	m := NewWatchModel(func() (Snapshot, error) { return Snapshot{}, nil }, WatchActions{})
	m.snap = Snapshot{Path: "/wifi/setup"}

	model, _ := m.Update(snapshotMsg{err: errors.New("loop stopped")})
	m = model.(WatchModel)

	if m.Err() == nil || m.Snapshot().Path != "/wifi/setup" {
		t.Error("an error must keep the previous snapshot")
	}
	if !strings.Contains(m.View(), "loop stopped") {
		t.Error("View() should show the source error")
	}
}

func TestWatchModel_FetchCallsSource(t *testing.T) {
	calls := 0
	m := NewWatchModel(func() (Snapshot, error) {
		calls++
		return Snapshot{Path: "/x"}, nil
	}, WatchActions{})

	msg := m.fetch()()
	sm, ok := msg.(snapshotMsg)
	if !ok || sm.snap.Path != "/x" || calls != 1 {
		t.Errorf("fetch() = %#v after %d calls", msg, calls)
	}
}
