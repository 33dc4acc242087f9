package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/pinmap/internal/pin"
)

// Config captures every tunable pinmap reads at startup.
type Config struct {
	GeocoderURL     string
	UserAgent       string
	GeocoderTimeout time.Duration
	StoreBackend    string
	StorePath       string
	LogFile         string
	LogLevel        string
	Map             MapView
}

// MapView is the initial map position.
type MapView struct {
	CenterLat float64
	CenterLng float64
	Zoom      int
}

const (
	defaultConfigPath      = "~/.config/pinmap/config.toml"
	defaultDataDir         = "~/.local/share/pinmap"
	defaultGeocoderURL     = "https://nominatim.openstreetmap.org"
	defaultUserAgent       = "pinmap/0.1"
	defaultGeocoderTimeout = 5 * time.Second
	defaultStoreBackend    = "json"
	defaultLogLevel        = "info"

	// MinZoom and MaxZoom bound the map zoom level.
	MinZoom = 1
	MaxZoom = 18
)

// DefaultMapView is the map position used when none is configured.
var DefaultMapView = MapView{CenterLat: 51.505, CenterLng: -0.09, Zoom: 13}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		GeocoderURL:     defaultGeocoderURL,
		UserAgent:       defaultUserAgent,
		GeocoderTimeout: defaultGeocoderTimeout,
		StoreBackend:    defaultStoreBackend,
		StorePath:       mustExpand(defaultStorePath(defaultStoreBackend)),
		LogFile:         mustExpand(defaultDataDir + "/pinmap.log"),
		LogLevel:        defaultLogLevel,
		Map:             DefaultMapView,
	}
}

type rawConfig struct {
	GeocoderURL     string `toml:"geocoder_url"`
	UserAgent       string `toml:"user_agent"`
	GeocoderTimeout string `toml:"geocoder_timeout"`
	StoreBackend    string `toml:"store_backend"`
	StorePath       string `toml:"store_path"`
	LogFile         string `toml:"log_file"`
	LogLevel        string `toml:"log_level"`
	Map             *struct {
		CenterLat *float64 `toml:"center_lat"`
		CenterLng *float64 `toml:"center_lng"`
		Zoom      *int     `toml:"zoom"`
	} `toml:"map"`
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawConfig) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(raw.GeocoderURL); v != "" {
		cfg.GeocoderURL = v
	}
	if v := strings.TrimSpace(raw.UserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := strings.TrimSpace(raw.GeocoderTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("geocoder_timeout %q: want a positive duration", v)
		}
		cfg.GeocoderTimeout = d
	}

	switch backend := strings.ToLower(strings.TrimSpace(raw.StoreBackend)); backend {
	case "":
	case "json", "bolt":
		cfg.StoreBackend = backend
	default:
		return Config{}, fmt.Errorf("store_backend %q: want json or bolt", raw.StoreBackend)
	}

	storePath := strings.TrimSpace(raw.StorePath)
	if storePath == "" {
		storePath = defaultStorePath(cfg.StoreBackend)
	}
	cfg.StorePath = mustExpand(storePath)

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	switch level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level {
	case "":
	case "debug", "info", "warn", "error":
		cfg.LogLevel = level
	default:
		return Config{}, fmt.Errorf("log_level %q: want debug, info, warn or error", raw.LogLevel)
	}

	if m := raw.Map; m != nil {
		if m.CenterLat != nil {
			cfg.Map.CenterLat = *m.CenterLat
		}
		if m.CenterLng != nil {
			cfg.Map.CenterLng = *m.CenterLng
		}
		if m.Zoom != nil {
			cfg.Map.Zoom = ClampZoom(*m.Zoom)
		}
		if err := pin.ValidateCoordinates(cfg.Map.CenterLat, cfg.Map.CenterLng); err != nil {
			return Config{}, fmt.Errorf("map center: %w", err)
		}
	}

	return cfg, nil
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// DefaultStorePath returns the expanded default store location for backend.
func DefaultStorePath(backend string) string {
	return mustExpand(defaultStorePath(backend))
}

func defaultStorePath(backend string) string {
	if backend == "bolt" {
		return defaultDataDir + "/pins.db"
	}
	return defaultDataDir + "/pins.json"
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
