// Package file provides the TOML-backed configuration adapter.
// Configuration lives in ~/.chainpulse/config.toml and is flattened
// into dot-notation keys (e.g. "refresh.interval_hours").
package file
