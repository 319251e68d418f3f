// Ewc-cfg configures devices running the EWC captive portal.
//
// It runs the portal's page logic in the terminal: the same request queue,
// scan and connection polling, and localization the device's web UI uses,
// against the device's JSON endpoints.
//
// Usage:
//
//	ewc-cfg [command] [flags]
//
// See 'ewc-cfg --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ewcportal/internal/logging"
	"github.com/muurk/ewcportal/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	deviceHost   string
	devicePort   int
	username     string
	password     string
	logLevel     string
	settingsPath string
	timeout      time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "ewc-cfg",
	Short: "EWC captive portal client",
	Long: `A terminal client for devices running the EWC captive portal.

Join the device's access point (or find it on your network with 'discover'),
then scan for networks and hand the device the credentials it should use.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&deviceHost, "device", "", "Device address or nickname (skips discovery)")
	flags.IntVar(&devicePort, "port", 80, "Device HTTP port")
	flags.StringVar(&username, "user", "admin", "HTTP Basic Auth user")
	flags.StringVar(&password, "password", "", "HTTP Basic Auth password (or EWC_PASSWORD)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")
	flags.StringVar(&settingsPath, "settings", "", "Settings file (default: settings.yaml in the config dir)")
	flags.DurationVar(&timeout, "timeout", 60*time.Second, "Give up when the device has not settled after this long")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ewc-cfg %s\n", version.Full())
	},
}
