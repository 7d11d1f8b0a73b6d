// Package config loads savedplaces configuration from file, environment and flags.
//
// Values are resolved by viper in this order: command-line flags, SAVEDPLACES_*
// environment variables, an optional config.yaml (working directory or
// $XDG_CONFIG_HOME/savedplaces), then built-in defaults. The loaded Config is passed
// explicitly to each pipeline stage; nothing is read from package-level state.
package config
