package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ewcportal/internal/config"
	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/discovery"
	"github.com/muurk/ewcportal/internal/logging"
	"github.com/muurk/ewcportal/internal/loop"
	"github.com/muurk/ewcportal/internal/page"
	"github.com/muurk/ewcportal/internal/portal"
	"github.com/muurk/ewcportal/internal/scheduler"
	"github.com/muurk/ewcportal/internal/ui"
)

// DefaultPortalHost is the device's address on its own access point.
const DefaultPortalHost = "192.168.4.1"

// passwordEnvVar supplies the Basic Auth password when --password is not given.
const passwordEnvVar = "EWC_PASSWORD"

// target is a resolved device plus everything needed to talk to it.
type target struct {
	host     string
	settings config.Settings
	registry *config.Registry
	client   *device.Client
}

func resolveTarget(cmd *cobra.Command) (*target, error) {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("port") {
		settings.Port = devicePort
	}
	if cmd.Flags().Changed("user") {
		settings.Username = username
	}
	pass := password
	if !cmd.Flags().Changed("password") {
		pass = os.Getenv(passwordEnvVar)
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, err
	}

	host, err := resolveHost(cmd.Context(), registry)
	if err != nil {
		return nil, err
	}

	client := device.NewClient(host, settings.Port)
	client.SetTimeout(settings.HTTPTimeout)
	client.SetAuth(settings.Username, pass)

	return &target{
		host:     host,
		settings: settings,
		registry: registry,
		client:   client,
	}, nil
}

// resolveHost picks the device: --device (address or nickname), the default
// device from the registry, or mDNS discovery.
func resolveHost(ctx context.Context, registry *config.Registry) (string, error) {
	if deviceHost != "" {
		if host, ok := registry.FindByNickname(deviceHost); ok {
			return host, nil
		}
		return deviceHost, nil
	}

	prefs := registry.Preferences
	if prefs.DefaultDevice != "" {
		return prefs.DefaultDevice, nil
	}
	if !prefs.AutoDiscover {
		return DefaultPortalHost, nil
	}

	fmt.Println("No device specified, looking for EWC devices...")
	scanner := discovery.NewScanner()
	if prefs.DiscoverTimeout > 0 {
		scanner.Timeout = time.Duration(prefs.DiscoverTimeout) * time.Second
	}
	devices, err := scanner.ScanForDevices(ctx)
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	switch len(devices) {
	case 0:
		fmt.Printf("No devices found, using the access point address %s\n\n", DefaultPortalHost)
		return DefaultPortalHost, nil
	case 1:
		d := devices[0]
		registry.UpdateDeviceLastSeen(d.Hostname, d.IP)
		fmt.Printf("Found %s\n\n", d)
		return d.IP, nil
	default:
		fmt.Printf("Found %d devices:\n", len(devices))
		for i, d := range devices {
			fmt.Printf("%d. %s\n", i+1, d)
		}
		return "", fmt.Errorf("multiple devices found. Use --device to specify which one")
	}
}

// saveRegistry persists the registry; failures are logged, not fatal.
func (t *target) saveRegistry() {
	if err := t.registry.Save(); err != nil {
		logging.Warn("Failed to save device registry", zap.Error(err))
	}
}

// recordingFetcher remembers the first fetch error so one-shot commands can
// report why a page stayed empty.
type recordingFetcher struct {
	client *device.Client

	mu  sync.Mutex
	err error
}

func (f *recordingFetcher) FetchJSON(ctx context.Context, uri string) (json.RawMessage, error) {
	raw, err := f.client.FetchJSON(ctx, uri)
	if err != nil {
		f.mu.Lock()
		if f.err == nil {
			f.err = err
		}
		f.mu.Unlock()
	}
	return raw, err
}

func (f *recordingFetcher) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// sessionRun is a portal session driven by its own loop goroutine.
type sessionRun struct {
	loop    *loop.Loop
	session *portal.Session
	fetcher *recordingFetcher
	nav     *page.Recorder
	cancel  context.CancelFunc

	settled chan struct{}
	once    sync.Once
}

// startSession creates a session rendering into the page built by layout and
// starts its loop. The session settles once no request is queued or in
// flight and no poll is armed. onNav, if non-nil, sees every navigation.
func startSession(ctx context.Context, t *target, layout func(page.Navigator) *page.Page, onNav func(target string)) (*sessionRun, error) {
	order, err := scheduler.ParseOrder(t.settings.QueueOrder)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &sessionRun{
		loop:    loop.New(),
		fetcher: &recordingFetcher{client: t.client},
		cancel:  cancel,
		settled: make(chan struct{}),
	}
	r.nav = page.NewRecorder(onNav)

	s, err := portal.NewSession(ctx, r.fetcher, r.loop, layout(r.nav), portal.Options{
		Order:         order,
		FetchTimeout:  t.settings.HTTPTimeout,
		PollDelay:     t.settings.PollInterval,
		FallbackDelay: t.settings.FallbackDelay,
		Language:      t.settings.Language,
		OnIdle:        r.checkSettled,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	r.session = s

	go func() { _ = r.loop.Run(ctx) }()
	return r, nil
}

func (r *sessionRun) checkSettled() {
	s := r.session
	if s.Scheduler().Idle() && !s.Scan().PollTimer().Armed() && !s.Connect().PollTimer().Armed() {
		r.once.Do(func() { close(r.settled) })
	}
}

// wait runs start on the loop and blocks until the session settles.
func (r *sessionRun) wait(ctx context.Context, start func(s *portal.Session)) error {
	r.loop.Post(func() { start(r.session) })
	select {
	case <-r.settled:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("device did not settle: %w", ctx.Err())
	}
}

// snapshot copies the session state on the loop.
func (r *sessionRun) snapshot(ctx context.Context) (ui.Snapshot, error) {
	var snap ui.Snapshot
	if err := r.loop.Do(ctx, func() { snap = ui.SnapshotOf(r.session) }); err != nil {
		return ui.Snapshot{}, err
	}
	if targets := r.nav.Targets(); len(targets) > 0 {
		snap.LastNavigation = targets[len(targets)-1]
	}
	return snap, nil
}

// do runs fn on the loop and waits for it.
func (r *sessionRun) do(ctx context.Context, fn func(s *portal.Session)) error {
	return r.loop.Do(ctx, func() { fn(r.session) })
}

func (r *sessionRun) close() {
	r.cancel()
}

// runPage is the shared body of the read-only commands: start a session on
// layout, run start, wait for it to settle and print the page.
func runPage(cmd *cobra.Command, layout func(page.Navigator) *page.Page, start func(s *portal.Session)) (*target, *sessionRun, ui.Snapshot, error) {
	t, err := resolveTarget(cmd)
	if err != nil {
		return nil, nil, ui.Snapshot{}, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	r, err := startSession(cmd.Context(), t, layout, nil)
	if err != nil {
		return nil, nil, ui.Snapshot{}, err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	if err := r.wait(ctx, start); err != nil {
		r.close()
		return nil, nil, ui.Snapshot{}, err
	}
	snap, err := r.snapshot(cmd.Context())
	if err != nil {
		r.close()
		return nil, nil, ui.Snapshot{}, err
	}
	printer.PrintPage(snap.Path, snap.Elements)
	if fetchErr := r.fetcher.Err(); fetchErr != nil {
		printer.PrintError("Request to "+t.host+" failed", fetchErr)
	}
	return t, r, snap, nil
}
