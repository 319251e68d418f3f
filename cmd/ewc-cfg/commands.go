package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ewcportal/internal/config"
	"github.com/muurk/ewcportal/internal/discovery"
	"github.com/muurk/ewcportal/internal/page"
	"github.com/muurk/ewcportal/internal/poll"
	"github.com/muurk/ewcportal/internal/portal"
	"github.com/muurk/ewcportal/internal/ui"
)

var (
	discoverTimeout time.Duration
	discoverAll     bool
)

func init() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(nicknameCmd)

	discoverCmd.Flags().DurationVar(&discoverTimeout, "discover-timeout", discovery.DefaultScanTimeout, "How long to listen for mDNS answers")
	discoverCmd.Flags().BoolVar(&discoverAll, "all", false, "Include devices with custom hostnames")
}

// discoverCmd finds devices on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find EWC devices on the network",
	Long: `Find EWC devices using mDNS/DNS-SD.

Devices that joined your network announce themselves as ewc-<chipid>.local.
Devices still in access point mode are not announced; join their access point
and use --device 192.168.4.1 instead.`,
	Example: `  # Listen for 5 seconds (default)
  ewc-cfg discover

  # Include devices whose hostname was changed
  ewc-cfg discover --all --discover-timeout 10s`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Printf("Looking for EWC devices (timeout: %s)...\n\n", discoverTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = discoverTimeout
	scanner.AnyHost = discoverAll

	devices, err := scanner.ScanForDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Devices in access point mode do not announce themselves")
		fmt.Println("  - Join the device's access point and use --device " + DefaultPortalHost)
		fmt.Println("  - Try a longer --discover-timeout")
		return nil
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))
	for i, d := range devices {
		fmt.Printf("%d. %s\n", i+1, d.Hostname)
		fmt.Printf("   Chip ID: %s\n", d.ChipID)
		fmt.Printf("   Address: %s\n", d.BaseURL())
		if known := registry.GetDevice(d.Hostname); known != nil && known.Nickname != "" {
			fmt.Printf("   Nickname: %s\n", known.Nickname)
		}
		fmt.Println()
		registry.UpdateDeviceLastSeen(d.Hostname, d.IP)
	}
	if err := registry.Save(); err != nil {
		return err
	}

	fmt.Println("Use 'ewc-cfg scan --device <address>' to list the networks a device sees")
	return nil
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show the portal menu",
	Long: `Load the portal menu (brand and navigation entries) and the device's
translations, exactly as the web portal's first page does.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, r, _, err := runPage(cmd, page.NewHomePage, (*portal.Session).Bootstrap)
		if err != nil {
			return err
		}
		defer r.close()

		var lang string
		_ = r.do(cmd.Context(), func(s *portal.Session) { lang = s.Overlay().Language() })
		if lang != "" {
			t.registry.RecordLanguage(t.host, lang)
			t.saveRegistry()
		}
		return r.fetcher.Err()
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show device information",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, r, _, err := runPage(cmd, page.NewInfoPage, func(s *portal.Session) {
			s.Bootstrap()
			s.LoadInfo()
		})
		if err != nil {
			return err
		}
		defer r.close()
		return r.fetcher.Err()
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the WiFi networks the device can see",
	Long: `Ask the device to scan for WiFi stations and poll until the scan settles.

Networks are listed with signal quality (derived from RSSI) and channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, r, snap, err := runPage(cmd, page.NewWiFiSetup, func(s *portal.Session) {
			s.Bootstrap()
			s.StartScan()
		})
		if err != nil {
			return err
		}
		defer r.close()

		if snap.ScanState == poll.ScanFailed {
			return fmt.Errorf("scan failed")
		}
		return r.fetcher.Err()
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the device's station connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, r, snap, err := runPage(cmd, page.NewStateWidget, (*portal.Session).WatchState)
		if err != nil {
			return err
		}
		defer r.close()

		if snap.ConnectState == poll.Connected {
			var ssid string
			_ = r.do(cmd.Context(), func(s *portal.Session) { ssid = s.Connect().Last().SSID })
			t.registry.RecordConnect(t.host, ssid)
			t.saveRegistry()
		}
		return r.fetcher.Err()
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Drop the device's station connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, "Disconnected", func(ctx context.Context, t *target) error {
			return t.client.Disconnect(ctx)
		})
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Reboot the device",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, "Restart requested", func(ctx context.Context, t *target) error {
			return t.client.Restart(ctx)
		})
	},
}

func runAction(cmd *cobra.Command, title string, action func(ctx context.Context, t *target) error) error {
	t, err := resolveTarget(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	printer := ui.NewPrinter(cmd.OutOrStdout())
	if err := action(ctx, t); err != nil {
		printer.PrintError(title+" failed", err)
		return err
	}
	printer.PrintSuccess(title, ui.Detail{Key: "Device", Value: t.host})
	return nil
}

var nicknameCmd = &cobra.Command{
	Use:   "nickname <host> <name>",
	Short: "Name a device so --device accepts the name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		registry.SetDeviceNickname(args[0], args[1])
		if err := registry.Save(); err != nil {
			return err
		}
		fmt.Printf("%s is now known as %q\n", args[0], args[1])
		return nil
	},
}
