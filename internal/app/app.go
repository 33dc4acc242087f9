package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/pinmap/internal/config"
	"github.com/five82/pinmap/internal/geocode"
	"github.com/five82/pinmap/internal/logging"
	"github.com/five82/pinmap/internal/prefs"
	"github.com/five82/pinmap/internal/state"
	"github.com/five82/pinmap/internal/store"
	"github.com/five82/pinmap/internal/ui"
)

// Options configure a pinmap session.
type Options struct {
	ConfigPath   string
	PrefsPath    string        // empty uses default ~/.config/pinmap/prefs.toml
	StoreBackend string        // overrides store_backend (and its default path)
	StorePath    string        // overrides store_path
	RetryEvery   time.Duration // failed-save retry cadence; zero uses default
}

// Session holds the wired core: repository plus the two view controllers.
type Session struct {
	Config    config.Config
	Logger    *slog.Logger
	Repo      *state.Repository
	Selection *state.Selection
	Drafts    *state.Drafts

	closers []func() error
}

// Open loads configuration, opens the store and initializes the repository.
// Callers must Close the session.
func Open(opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if b := strings.ToLower(strings.TrimSpace(opts.StoreBackend)); b != "" {
		cfg.StoreBackend = b
		cfg.StorePath = config.DefaultStorePath(b)
	}
	if p := strings.TrimSpace(opts.StorePath); p != "" {
		expanded, err := config.ExpandPath(p)
		if err != nil {
			return nil, fmt.Errorf("store path: %w", err)
		}
		cfg.StorePath = expanded
	}

	logger, closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	s := &Session{Config: cfg, Logger: logger, closers: []func() error{closeLog}}

	st, closeStore, err := store.Open(cfg.StoreBackend, cfg.StorePath, logger)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.closers = append(s.closers, closeStore)

	client, err := geocode.NewClient(geocode.Options{
		BaseURL:   cfg.GeocoderURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.GeocoderTimeout,
		Logger:    logger,
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("init geocoder: %w", err)
	}

	s.Repo = state.NewRepository(st, client, logger)
	if err := s.Repo.Initialize(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("init repository: %w", err)
	}
	s.Selection = state.NewSelection(s.Repo)
	s.Drafts = state.NewDrafts(s.Repo)

	logger.Info("session opened",
		"store_backend", cfg.StoreBackend,
		"store_path", cfg.StorePath,
		"geocoder", cfg.GeocoderURL,
	)
	return s, nil
}

// Close releases the store and the log file, newest first.
func (s *Session) Close() error {
	if s.Selection != nil {
		s.Selection.Close()
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Run boots the pinmap TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	stop := StartSaveRetrier(ctx, s.Repo, opts.RetryEvery, s.Logger)
	defer stop()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	view := s.Config.Map
	if v := userPrefs.Map; v != nil {
		view = config.MapView{CenterLat: v.CenterLat, CenterLng: v.CenterLng, Zoom: config.ClampZoom(v.Zoom)}
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Repo:      s.Repo,
		Selection: s.Selection,
		Drafts:    s.Drafts,
		MapView:   view,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
		LogFile:   s.Config.LogFile,
		Logger:    s.Logger,
	})
}
