// Ewc-sim serves a simulated EWC device.
//
// It answers the portal's JSON endpoints (menu, languages, scan, connection
// state, device info) and accepts credentials, so ewc-cfg can be exercised
// without hardware.
//
// Usage:
//
//	ewc-sim serve [flags]
//
// See 'ewc-sim serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/ewcportal/internal/simulator"
	"github.com/muurk/ewcportal/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ewc-sim",
	Short:   "EWC device simulator",
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command flags
var simConfig = simulator.DefaultConfig()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulated device",
	Long: `Start an HTTP server that behaves like a device running the EWC portal.

Scans report "in progress" for --scan-steps polls before returning four
networks, one of them hidden. Connection attempts report "connecting" for
--connect-steps polls, then succeed unless the network is unknown or the
passphrase of an encrypted network is shorter than 8 characters.`,
	Example: `  # Start on 127.0.0.1:8080 with user admin and no password
  ewc-sim serve

  # German portal, slow scans, no authentication
  ewc-sim serve --language de --scan-steps 5 --user ""`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&simConfig.Host, "host", simConfig.Host, "Listen address")
	f.IntVar(&simConfig.Port, "port", simConfig.Port, "Listen port")
	f.IntVar(&simConfig.ScanSteps, "scan-steps", simConfig.ScanSteps, "Polls a scan stays in progress")
	f.IntVar(&simConfig.ConnectSteps, "connect-steps", simConfig.ConnectSteps, "Polls a connection attempt stays pending")
	f.StringVar(&simConfig.Language, "language", simConfig.Language, "Language reported by the menu")
	f.StringVar(&simConfig.Username, "user", simConfig.Username, "Basic Auth user (empty disables auth)")
	f.StringVar(&simConfig.Password, "password", simConfig.Password, "Basic Auth password")
	f.StringVar(&simConfig.BrandName, "brand", "", "Brand shown in the menu")
	f.BoolVar(&simConfig.FailScan, "fail-scan", false, "Make every scan fail")
	f.BoolVar(&simConfig.TrailingJunk, "trailing-junk", false, "Append NUL bytes after JSON documents")
	f.StringVar(&simConfig.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if simConfig.ScanSteps < 0 || simConfig.ConnectSteps < 0 {
		return fmt.Errorf("--scan-steps and --connect-steps must not be negative")
	}

	srv, err := simulator.New(&simConfig)
	if err != nil {
		return err
	}
	return srv.Start(cmd.Context())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ewc-sim %s\n", version.Full())
	},
}
