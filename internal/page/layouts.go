package page

import (
	"sync"

	"github.com/muurk/ewcportal/internal/urls"
)

// Element ids shared between renderers and layouts.
const (
	IDHeader       = "header"
	IDBrand        = "brand"
	IDSSIDList     = "list_ssid"
	IDSSIDListInfo = "list_ssid_info"
	IDSSIDCurrent  = "ssid_current"
	IDDisconnect   = "btn_disconnect"
	IDBusy         = "dbl"
	IDInfo         = "ewc_info"
	IDSSIDInput    = "ssid"
	IDPassphrase   = "passphrase"
	IDSave         = "btn_save"

	// NavPrefix prefixes the ids of menu entries rendered into the header.
	NavPrefix = "nav_"
	// SSIDItemPrefix prefixes the ids of scan result entries.
	SSIDItemPrefix = "ssid_item_"
)

// NewWiFiSetup builds the scan/connect page: network list, credentials form
// and the current connection widget.
func NewWiFiSetup(nav Navigator) *Page {
	p := New(urls.SetupPage, nav)
	p.Upsert(Element{ID: IDHeader})
	p.Upsert(Element{ID: "title_wifi", Content: "WiFi setup"})
	p.Upsert(Element{ID: IDSSIDList})
	p.Upsert(Element{ID: IDSSIDListInfo})
	p.Upsert(Element{ID: "label_ssid", Content: "Network"})
	p.Upsert(Element{ID: IDSSIDInput, Kind: KindInput, Type: "text"})
	p.Upsert(Element{ID: "label_passphrase", Content: "Password"})
	p.Upsert(Element{ID: IDPassphrase, Kind: KindInput, Type: "password"})
	p.Upsert(Element{ID: IDSave, Kind: KindInput, Type: "button", Value: "Save"})
	p.Upsert(Element{ID: IDSSIDCurrent})
	p.Upsert(Element{ID: IDBusy, Content: "…"})
	return p
}

// NewStateWidget builds the standalone connection status page shown after
// credentials were saved. It has no network list, so terminal connection
// states redirect away from it.
func NewStateWidget(nav Navigator) *Page {
	p := New("/wifi/state.html", nav)
	p.Upsert(Element{ID: IDHeader})
	p.Upsert(Element{ID: IDSSIDCurrent})
	p.Upsert(Element{ID: IDBusy, Content: "…"})
	return p
}

// NewHomePage builds the landing page: just the header the menu renders into.
func NewHomePage(nav Navigator) *Page {
	p := New(urls.Home, nav)
	p.Upsert(Element{ID: IDHeader})
	return p
}

// NewInfoPage builds the device information page.
func NewInfoPage(nav Navigator) *Page {
	p := New(urls.InfoPage, nav)
	p.Upsert(Element{ID: IDHeader})
	p.Upsert(Element{ID: "title_info", Content: "Device info"})
	p.Upsert(Element{ID: IDInfo})
	return p
}

// Recorder is a Navigator that remembers every target. It is safe for
// concurrent use.
type Recorder struct {
	mu      sync.Mutex
	targets []string
	onNav   func(string)
}

// NewRecorder creates a Recorder. onNav, if non-nil, is called for each navigation.
func NewRecorder(onNav func(string)) *Recorder {
	return &Recorder{onNav: onNav}
}

// Navigate records target.
func (r *Recorder) Navigate(target string) {
	r.mu.Lock()
	r.targets = append(r.targets, target)
	r.mu.Unlock()
	if r.onNav != nil {
		r.onNav(target)
	}
}

// Targets returns all recorded targets in order.
func (r *Recorder) Targets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.targets...)
}
