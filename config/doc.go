// Package config loads application settings from a TOML file with
// environment variable overrides. Credentials are expected from the
// environment; everything else has a usable default.
package config
