// Package config loads pinmap's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pinmap/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	geocoder_url     = "https://nominatim.openstreetmap.org"
//	user_agent       = "pinmap/0.1 (you@example.com)"
//	geocoder_timeout = "5s"
//	store_backend    = "json"            # or "bolt"
//	store_path       = "~/.local/share/pinmap/pins.json"
//	log_file         = "~/.local/share/pinmap/pinmap.log"
//	log_level        = "info"
//
//	[map]
//	center_lat = 51.505
//	center_lng = -0.09
//	zoom       = 13
//
// Every field is optional. Tilde expansion is performed for paths.
//
// # Error Handling
//
// Load returns errors for unreadable or unparseable files and for values
// that cannot be used (unknown backend, unknown level, bad duration, map
// center out of range). A missing file is not an error.
package config
