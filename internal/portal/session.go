package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/i18n"
	"github.com/muurk/ewcportal/internal/logging"
	"github.com/muurk/ewcportal/internal/loop"
	"github.com/muurk/ewcportal/internal/page"
	"github.com/muurk/ewcportal/internal/poll"
	"github.com/muurk/ewcportal/internal/render"
	"github.com/muurk/ewcportal/internal/scheduler"
	"github.com/muurk/ewcportal/internal/urls"
)

// Renderer names registered by every session.
const (
	MenuRenderer     = "menu"
	LanguageRenderer = "applyLanguage"
	InfoRenderer     = "info"
	ScanRenderer     = poll.ScanRenderer
	ConnectRenderer  = poll.ConnectRenderer
)

// Options configures a Session.
type Options struct {
	Order         scheduler.Order
	FetchTimeout  time.Duration
	PollDelay     time.Duration
	FallbackDelay time.Duration

	// LegacyMenu bootstraps from /menu instead of /menu.json.
	LegacyMenu bool

	// Language, if set, overrides the language reported by the menu.
	Language string

	OnIdle        func()
	OnScanDone    func()
	OnConnectDone func()
}

// Session is one portal page load: a scheduler, its renderers and the page
// they render into, all driven by one runner.
//
// Apart from ID, methods must run on the session's runner.
type Session struct {
	id       string
	runner   loop.Runner
	page     *page.Page
	registry *render.Registry
	sched    *scheduler.Scheduler
	overlay  *i18n.Overlay
	scan     *poll.ScanPoller
	connect  *poll.ConnectPoller
	opts     Options

	menu    device.Menu
	navIDs  []string
	info    *device.Info
	infoIDs []string
}

// NewSession wires a session around fetcher and runner rendering into p.
func NewSession(ctx context.Context, fetcher scheduler.Fetcher, runner loop.Runner, p *page.Page, opts Options) (*Session, error) {
	s := &Session{
		id:       uuid.NewString(),
		runner:   runner,
		page:     p,
		registry: render.NewRegistry(),
		overlay:  i18n.New(p),
		opts:     opts,
	}

	s.sched = scheduler.New(ctx, runner, fetcher, s.registry, scheduler.Options{
		Order:        opts.Order,
		FetchTimeout: opts.FetchTimeout,
		SessionID:    s.id,
		OnIdle:       opts.OnIdle,
	})
	s.scan = poll.NewScanPoller(p, s.sched, runner, poll.Options{
		PollDelay: opts.PollDelay,
		OnDone:    opts.OnScanDone,
	})
	s.connect = poll.NewConnectPoller(p, s.sched, runner, poll.Options{
		PollDelay:     opts.PollDelay,
		FallbackDelay: opts.FallbackDelay,
		OnDone:        opts.OnConnectDone,
	})

	renderers := []struct {
		name string
		fn   render.RendererFunc
	}{
		{MenuRenderer, s.renderMenu},
		{LanguageRenderer, s.overlay.Render},
		{ScanRenderer, s.scan.Render},
		{ConnectRenderer, s.connect.Render},
		{InfoRenderer, s.renderInfo},
	}
	for _, r := range renderers {
		if err := s.registry.Register(r.name, r.fn); err != nil {
			return nil, fmt.Errorf("register renderers: %w", err)
		}
	}

	logging.Debug("Session created",
		zap.String("session", s.id),
		zap.String("page", p.Path()),
		zap.String("order", opts.Order.String()),
	)
	return s, nil
}

// ID returns the session's correlation id.
func (s *Session) ID() string { return s.id }

// Runner returns the runner the session is bound to.
func (s *Session) Runner() loop.Runner { return s.runner }

// Page returns the page the session renders into.
func (s *Session) Page() *page.Page { return s.page }

// Scheduler returns the session's request scheduler.
func (s *Session) Scheduler() *scheduler.Scheduler { return s.sched }

// Registry returns the session's renderer registry.
func (s *Session) Registry() *render.Registry { return s.registry }

// Overlay returns the session's localization overlay.
func (s *Session) Overlay() *i18n.Overlay { return s.overlay }

// Scan returns the scan controller.
func (s *Session) Scan() *poll.ScanPoller { return s.scan }

// Connect returns the connect controller.
func (s *Session) Connect() *poll.ConnectPoller { return s.connect }

// Menu returns the last rendered menu.
func (s *Session) Menu() device.Menu { return s.menu }

// Info returns the last rendered device info, or nil.
func (s *Session) Info() *device.Info { return s.info }

// Bootstrap enqueues the menu load.
func (s *Session) Bootstrap() {
	uri := urls.Menu
	if s.opts.LegacyMenu {
		uri = urls.LegacyMenu
	}
	s.sched.Enqueue(uri, MenuRenderer)
}

// StartScan enqueues a scan status check. The scan controller keeps polling
// until the scan settles.
func (s *Session) StartScan() {
	s.sched.Enqueue(urls.WiFiStations, ScanRenderer)
}

// WatchState enqueues a connection status check.
func (s *Session) WatchState() {
	s.sched.Enqueue(urls.WiFiState, ConnectRenderer)
}

// LoadInfo enqueues the device info load.
func (s *Session) LoadInfo() {
	s.sched.Enqueue(urls.Info, InfoRenderer)
}

// Disconnect navigates to the disconnect action.
func (s *Session) Disconnect() {
	logging.LogNavigation(urls.WiFiDisconnect, "disconnect")
	s.page.Navigate(urls.WiFiDisconnect)
}

func (s *Session) renderMenu(payload json.RawMessage, uri string) error {
	var m device.Menu
	if err := json.Unmarshal(payload, &m); err != nil {
		return fmt.Errorf("decode menu from %s: %w", uri, err)
	}
	s.menu = m

	s.page.SetContent(page.IDHeader, m.Brand)
	brandHref := m.BrandURI
	if brandHref == "" {
		brandHref = urls.Home
	}
	s.page.UpsertAfter(page.IDHeader, page.Element{ID: page.IDBrand, Content: m.Brand, Href: brandHref})

	for _, id := range s.navIDs {
		s.page.Remove(id)
	}
	s.navIDs = s.navIDs[:0]
	anchor := page.IDBrand
	for _, item := range m.Elements {
		if !item.IsVisible() {
			continue
		}
		s.page.UpsertAfter(anchor, page.Element{
			ID:      item.ID,
			Content: item.Name,
			Href:    item.Href,
			Classes: []string{"lb-item"},
		})
		s.navIDs = append(s.navIDs, item.ID)
		anchor = item.ID
	}

	lang := m.Language
	if s.opts.Language != "" {
		lang = s.opts.Language
	}
	if lang == "" {
		lang = i18n.DefaultLanguage
	}
	if err := s.overlay.SetLanguage(lang); err != nil {
		return err
	}
	if s.overlay.IsDefault() {
		return nil
	}
	if len(s.overlay.Keys()) > 0 {
		s.overlay.UpdateLanguageKeys(s.navIDs)
		return nil
	}
	s.sched.Enqueue(urls.Languages, LanguageRenderer)
	return nil
}

type infoField struct {
	id    string
	label string
	value func(*device.Info) string
}

var infoFields = []infoField{
	{"info_version", "Firmware", func(i *device.Info) string { return i.Version }},
	{"info_ssid", "SSID", func(i *device.Info) string { return i.EstabSSID }},
	{"info_wifi_mode", "WiFi mode", func(i *device.Info) string { return i.WiFiMode }},
	{"info_wifi_status", "WiFi status", func(i *device.Info) string { return i.WiFiStatus }},
	{"info_local_ip", "IP address", func(i *device.Info) string { return i.LocalIP }},
	{"info_gateway", "Gateway", func(i *device.Info) string { return i.Gateway }},
	{"info_netmask", "Netmask", func(i *device.Info) string { return i.Netmask }},
	{"info_softap_ip", "AP address", func(i *device.Info) string { return i.SoftAPIP }},
	{"info_ap_mac", "AP MAC", func(i *device.Info) string { return i.APMAC }},
	{"info_sta_mac", "Station MAC", func(i *device.Info) string { return i.StaMAC }},
	{"info_channel", "Channel", func(i *device.Info) string { return i.Channel }},
	{"info_dbm", "Signal (dBm)", func(i *device.Info) string { return i.DBm }},
	{"info_chip_id", "Chip ID", func(i *device.Info) string { return i.ChipID }},
	{"info_cpu_freq", "CPU (MHz)", func(i *device.Info) string { return i.CPUFreq }},
	{"info_flash_size", "Flash size", func(i *device.Info) string { return i.FlashSize }},
	{"info_free_heap", "Free heap", func(i *device.Info) string { return i.FreeHeap }},
}

func (s *Session) renderInfo(payload json.RawMessage, uri string) error {
	var info device.Info
	if err := json.Unmarshal(payload, &info); err != nil {
		return fmt.Errorf("decode info from %s: %w", uri, err)
	}
	s.info = &info

	for _, id := range s.infoIDs {
		s.page.Remove(id)
	}
	s.infoIDs = s.infoIDs[:0]
	anchor := page.IDInfo
	for _, f := range infoFields {
		v := f.value(&info)
		if v == "" {
			continue
		}
		s.page.UpsertAfter(anchor, page.Element{ID: f.id, Content: f.label + ": " + v, Classes: []string{"info"}})
		s.infoIDs = append(s.infoIDs, f.id)
		anchor = f.id
	}
	return nil
}
