// Package config manages the CLI's persistent state.
//
// Two files live in the OS-appropriate configuration directory:
//
//   - devices.yaml, the device registry: nicknames, last known address, the
//     last network each device was told to join and its portal language.
//     It is read and written with gopkg.in/yaml.v3, atomically.
//   - settings.yaml, runtime settings (port, username, poll interval,
//     fallback delay, HTTP timeout, queue order, language) read with viper.
//     Every key can be overridden by an EWC_ environment variable, e.g.
//     EWC_POLL_INTERVAL=500ms.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/ewcportal or $HOME/.config/ewcportal
//   - macOS: $HOME/.config/ewcportal
//   - Windows: %LOCALAPPDATA%\ewcportal
//
// # Security
//
// Device passwords and WiFi passphrases are never written to either file.
package config
