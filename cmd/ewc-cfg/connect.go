package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/page"
	"github.com/muurk/ewcportal/internal/poll"
	"github.com/muurk/ewcportal/internal/portal"
	"github.com/muurk/ewcportal/internal/ui"
)

// maxSuggestDistance bounds the edit distance of a "did you mean" SSID.
const maxSuggestDistance = 3

var (
	connectPassphrase string
	connectStationIP  string
	connectNoScan     bool
)

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().StringVar(&connectPassphrase, "passphrase", "", "WiFi passphrase (prompted when omitted)")
	connectCmd.Flags().StringVar(&connectStationIP, "static-ip", "", "Request a static station address")
	connectCmd.Flags().BoolVar(&connectNoScan, "no-scan", false, "Skip checking the SSID against a scan (hidden networks)")
}

var connectCmd = &cobra.Command{
	Use:   "connect <ssid>",
	Short: "Tell the device which WiFi network to join",
	Long: `Save WiFi credentials on the device and follow the connection attempt.

The SSID is checked against a fresh scan first. The passphrase is prompted
without echo unless --passphrase is given or the network is open.`,
	Example: `  # Join a network, prompting for the passphrase
  ewc-cfg connect HomeNet --device 192.168.4.1

  # Join a hidden network
  ewc-cfg connect Attic --no-scan --passphrase 'correct horse'`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

func runConnect(cmd *cobra.Command, args []string) error {
	ssid := args[0]

	t, err := resolveTarget(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	printer := ui.NewPrinter(cmd.OutOrStdout())

	encrypted := true
	if connectNoScan {
		encrypted = connectPassphrase != "" || !cmd.Flags().Changed("passphrase")
	} else {
		networks, err := scanNetworks(ctx, t)
		if err != nil {
			return err
		}
		n, ok := findNetwork(networks, ssid)
		if !ok {
			if suggestion := suggestSSID(ssid, networks); suggestion != "" {
				return fmt.Errorf("network %q not found. Did you mean %q?", ssid, suggestion)
			}
			return fmt.Errorf("network %q not found (use --no-scan for hidden networks)", ssid)
		}
		encrypted = n.Encrypted
	}

	pass := connectPassphrase
	if encrypted && !cmd.Flags().Changed("passphrase") {
		pass, err = promptPassphrase(cmd.InOrStdin(), cmd.ErrOrStderr(), ssid)
		if err != nil {
			return err
		}
	}

	creds := &device.Credentials{SSID: ssid, Passphrase: pass, StationIP: connectStationIP}
	if errs := creds.Validate(encrypted); len(errs) > 0 {
		err := errors.Join(errs...)
		printer.PrintError("Invalid credentials", err)
		return err
	}
	if err := t.client.Connect(ctx, creds); err != nil {
		printer.PrintError("Saving credentials failed", err)
		return err
	}
	t.registry.RecordConnect(t.host, ssid)
	t.saveRegistry()

	r, err := startSession(cmd.Context(), t, page.NewStateWidget, nil)
	if err != nil {
		return err
	}
	defer r.close()

	if err := r.wait(ctx, (*portal.Session).WatchState); err != nil {
		return err
	}
	snap, err := r.snapshot(cmd.Context())
	if err != nil {
		return err
	}
	printer.PrintPage(snap.Path, snap.Elements)

	var last device.WiFiState
	_ = r.do(cmd.Context(), func(s *portal.Session) { last = s.Connect().Last() })

	switch snap.ConnectState {
	case poll.Connected:
		printer.PrintSuccess("Connected",
			ui.Detail{Key: "SSID", Value: last.SSID},
			ui.Detail{Key: "IP", Value: last.LocalIP},
		)
		return nil
	case poll.ConnectFailed:
		return fmt.Errorf("connecting to %q failed: %s", ssid, last.Reason)
	}
	if err := r.fetcher.Err(); err != nil {
		printer.PrintError("Following the connection failed", err)
		return err
	}
	return nil
}

// scanNetworks runs a scan session and returns its result.
func scanNetworks(ctx context.Context, t *target) ([]poll.ScanEntry, error) {
	r, err := startSession(ctx, t, page.NewWiFiSetup, nil)
	if err != nil {
		return nil, err
	}
	defer r.close()

	if err := r.wait(ctx, (*portal.Session).StartScan); err != nil {
		return nil, err
	}

	var (
		state  poll.ScanState
		result poll.ScanResult
		reason string
	)
	if err := r.do(ctx, func(s *portal.Session) {
		state = s.Scan().State()
		result = s.Scan().Result()
		reason = s.Scan().Reason()
	}); err != nil {
		return nil, err
	}

	switch state {
	case poll.ScanSuccess:
		return result.Networks, nil
	case poll.ScanFailed:
		return nil, fmt.Errorf("scan failed: %s", reason)
	}
	if err := r.fetcher.Err(); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return nil, fmt.Errorf("scan did not finish")
}

func findNetwork(networks []poll.ScanEntry, ssid string) (poll.ScanEntry, bool) {
	for _, n := range networks {
		if n.SSID == ssid {
			return n, true
		}
	}
	return poll.ScanEntry{}, false
}

// suggestSSID returns the visible network closest to ssid, or "" when
// nothing is close enough.
func suggestSSID(ssid string, networks []poll.ScanEntry) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, n := range networks {
		if n.SSID == "" {
			continue
		}
		if strings.EqualFold(n.SSID, ssid) {
			return n.SSID
		}
		if d := levenshtein.ComputeDistance(ssid, n.SSID); d < bestDist {
			best, bestDist = n.SSID, d
		}
	}
	return best
}

// promptPassphrase reads the passphrase without echo from a terminal, or a
// plain line otherwise.
func promptPassphrase(in io.Reader, out io.Writer, ssid string) (string, error) {
	fmt.Fprintf(out, "Passphrase for %s: ", ssid)

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
