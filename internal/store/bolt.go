package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/five82/pinmap/internal/pin"
)

const boltBucketPins = "pins" // key: SlotName -> JSON array of pins

// BoltStore keeps the collection under one key of a bbolt database.
type BoltStore struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// OpenBolt opens (creating if needed) the bbolt database at path.
func OpenBolt(path string, logger *slog.Logger) (*BoltStore, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := bbolt.Open(resolved, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketPins))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bolt store: %w", err)
	}

	return &BoltStore{db: db, logger: componentLogger(logger, BackendBolt)}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Load reads the slot. A missing key or corrupt blob reads as empty.
func (s *BoltStore) Load() []pin.Pin {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(boltBucketPins))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(SlotName)); v != nil {
			// v is only valid inside the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("read stored pins; starting empty", "error", err)
		return nil
	}
	return decode(data, s.logger)
}

// Save replaces the slot in a single write transaction.
func (s *BoltStore) Save(pins []pin.Pin) error {
	data, err := encode(pins)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(boltBucketPins))
		if err != nil {
			return err
		}
		return b.Put([]byte(SlotName), data)
	}); err != nil {
		return fmt.Errorf("write pins: %w", err)
	}
	return nil
}
