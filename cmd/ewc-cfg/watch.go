package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/ewcportal/internal/logging"
	"github.com/muurk/ewcportal/internal/page"
	"github.com/muurk/ewcportal/internal/portal"
	"github.com/muurk/ewcportal/internal/ui"
	"github.com/muurk/ewcportal/internal/urls"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of the WiFi setup page",
	Long: `Open the WiFi setup page and keep it live: the menu, a network scan and
the connection status update as the device answers.

Keys: r rescans, s checks the connection, d disconnects, q quits.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	// Navigations run on the loop; the disconnect action is carried out
	// against the device and followed by a state check.
	var r *sessionRun
	onNav := func(target string) {
		if target != urls.WiFiDisconnect {
			return
		}
		go func() {
			if err := t.client.Disconnect(ctx); err != nil {
				logging.Warn("Disconnect failed", zap.Error(err))
			}
			r.loop.Post(r.session.WatchState)
		}()
	}

	r, err = startSession(ctx, t, page.NewWiFiSetup, onNav)
	if err != nil {
		return err
	}
	defer r.close()

	r.loop.Post(func() {
		s := r.session
		s.Bootstrap()
		s.StartScan()
		s.WatchState()
	})

	post := func(fn func(s *portal.Session)) func() {
		return func() { r.loop.Post(func() { fn(r.session) }) }
	}
	model := ui.NewWatchModel(func() (ui.Snapshot, error) {
		return r.snapshot(ctx)
	}, ui.WatchActions{
		Rescan:     post((*portal.Session).StartScan),
		State:      post((*portal.Session).WatchState),
		Disconnect: post((*portal.Session).Disconnect),
	}).WithInterval(t.settings.PollInterval / 4)

	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
