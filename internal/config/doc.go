// Package config loads, defaults, normalizes, and validates the shelfsort
// YAML configuration.
//
// Load resolves the config file (explicit path or the default under
// ~/.config/shelfsort), overlays it onto Default(), expands ~ in all path
// fields, applies environment overrides, and validates the result. A missing
// file is not an error; defaults plus DEEPSEEK_API_KEY are enough for a run.
//
// The configuration is loaded once at startup and treated as immutable for
// the lifetime of the process.
package config
