package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/pinmap/internal/pin"
)

// FileStore keeps the collection in a single JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

const defaultFilePath = "~/.local/share/pinmap/pins.json"

// NewFileStore returns a FileStore for path; an empty path uses the default
// location under the user's home directory.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if strings.TrimSpace(path) == "" {
		path = defaultFilePath
	}
	return &FileStore{path: path, logger: componentLogger(logger, BackendJSON)}
}

// Path returns the configured (unexpanded) file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file. Missing, unreadable or corrupt files read as empty.
func (s *FileStore) Load() []pin.Pin {
	resolved, err := expandPath(s.path)
	if err != nil {
		s.logger.Warn("resolve store path", "error", err)
		return nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("read stored pins; starting empty", "path", resolved, "error", err)
		}
		return nil
	}
	return decode(data, s.logger)
}

// Save replaces the file contents. The new blob is written to a temporary
// file in the same directory and renamed over the old one.
func (s *FileStore) Save(pins []pin.Pin) error {
	resolved, err := expandPath(s.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	data, err := encode(pins)
	if err != nil {
		return err
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(resolved)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write pins: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync pins: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, resolved); err != nil {
		return fmt.Errorf("replace pins: %w", err)
	}
	return nil
}

func expandPath(path string) (string, error) {
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
