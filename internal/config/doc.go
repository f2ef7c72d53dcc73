// Package config loads, normalizes, and validates lodestone configuration.
// Configuration lives in a TOML file; a missing file yields defaults so the
// CLI works out of the box against the public Modrinth API.
package config
