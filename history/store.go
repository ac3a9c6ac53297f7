// Package history keeps calculation history and user preferences in an
// embedded BadgerDB.
//
// Records are stored under rec/<user>/<inverted time>/<id> so a forward
// prefix scan returns the newest first. Preferences live under
// pref/<user>/<key>.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a preference has never been set.
	ErrNotFound = errors.New("history: not found")
	// ErrInvalidRecord is returned by Append for a record without a user.
	ErrInvalidRecord = errors.New("history: invalid record")
)

// Kind names the calculation that produced a record.
type Kind string

const (
	KindAnalysis   Kind = "analysis"
	KindCalculus   Kind = "calculus"
	KindFormula    Kind = "formula"
	KindSimulation Kind = "simulation"
)

// Record is one entry of a user's calculation history.
type Record struct {
	ID        uuid.UUID `json:"id"`
	User      string    `json:"user"`
	Kind      Kind      `json:"kind"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}

// Config holds the store settings.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path       string `yaml:"path" validate:"required_without=InMemory"`
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
	// GCInterval is how often value-log GC runs. Zero disables it.
	GCInterval     time.Duration `yaml:"gc_interval" validate:"gte=0"`
	GCDiscardRatio float64       `yaml:"gc_discard_ratio" validate:"gte=0,lte=1"`
}

// DefaultConfig returns settings for a persistent store at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns settings for a throwaway store.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store is safe for concurrent use.
type Store struct {
	db  *badger.DB
	gc  *gcRunner
	log *slog.Logger
	now func() time.Time
}

// Open opens or creates the store described by cfg. A nil logger keeps
// badger quiet and uses slog.Default() for store events.
func Open(cfg Config, logger *slog.Logger) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("history: path is required for a persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("history: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger.With("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
		logger = slog.Default()
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("history: open badger: %w", err)
	}
	s := &Store{db: db, log: logger, now: time.Now}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.gc, err = newGCRunner(db, cfg.GCInterval, cfg.GCDiscardRatio, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %w", err)
		}
		s.gc.start()
	}
	return s, nil
}

// OpenInMemory opens a store that loses its data on Close.
func OpenInMemory() (*Store, error) {
	return Open(InMemoryConfig(), nil)
}

// Close stops GC and closes the database.
func (s *Store) Close() error {
	if s.gc != nil {
		s.gc.stop()
	}
	return s.db.Close()
}

// ============================================================
// Records
// ============================================================

func recordPrefix(user string) []byte {
	return []byte("rec/" + url.PathEscape(user) + "/")
}

func recordKey(rec Record) []byte {
	inverted := uint64(math.MaxInt64 - rec.CreatedAt.UnixNano())
	return append(recordPrefix(rec.User), fmt.Sprintf("%016x/%s", inverted, rec.ID)...)
}

// Append stores rec, assigning an ID and timestamp when they are unset,
// and returns the stored record.
func (s *Store) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.User == "" {
		return Record{}, fmt.Errorf("%w: user is required", ErrInvalidRecord)
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("history: encode record: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec), data)
	})
	if err != nil {
		return Record{}, fmt.Errorf("history: append: %w", err)
	}
	s.log.Debug("history record stored", "user", rec.User, "kind", rec.Kind, "id", rec.ID)
	return rec, nil
}

// List returns up to limit records for user, newest first. A limit of
// zero or less returns them all.
func (s *Store) List(ctx context.Context, user string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: recordPrefix(user), PrefetchValues: true, PrefetchSize: 32})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if limit > 0 && len(out) >= limit {
				return nil
			}
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	return out, nil
}

// Clear deletes every record of user and reports how many were removed.
// Preferences are kept.
func (s *Store) Clear(ctx context.Context, user string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: recordPrefix(user)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("history: clear: %w", err)
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, fmt.Errorf("history: clear: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("history: clear: %w", err)
	}
	return len(keys), nil
}

// ============================================================
// Preferences
// ============================================================

func prefKey(user, key string) []byte {
	return []byte("pref/" + url.PathEscape(user) + "/" + url.PathEscape(key))
}

func (s *Store) SetPreference(ctx context.Context, user, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(prefKey(user, key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("history: set preference %s: %w", key, err)
	}
	return nil
}

// GetPreference returns ErrNotFound when key was never set for user.
func (s *Store) GetPreference(ctx context.Context, user, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(prefKey(user, key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return "", fmt.Errorf("%w: preference %q for %q", ErrNotFound, key, user)
	case err != nil:
		return "", fmt.Errorf("history: get preference %s: %w", key, err)
	}
	return value, nil
}
