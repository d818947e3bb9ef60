// Package config defines the monitor daemon settings and provides helpers
// to load and validate them.
//
// Settings come from a YAML file overlaid with MOISTURE_* environment
// variables, which may in turn be loaded from a .env file. The environment
// always wins, so mail credentials never need to live in the settings file.
package config
