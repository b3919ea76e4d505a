// Package store persists khata state as named slots in a local SQLite file.
//
// Each slot holds one JSON document (or a plain string for the webhook
// URL). Reads never fail the caller: a missing or undecodable slot falls
// back to its default and is logged.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/khata/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // register sqlite driver
)

// Slot keys.
const (
	KeyTransactions = "transactions"
	KeyGoals        = "goals"
	KeyLiabilities  = "liabilities"
	KeyPresets      = "presets"
	KeyWebhookURL   = "webhook_url"
)

// DBFile is the database file name inside the data directory.
const DBFile = "khata.db"

// Store is a SQLite-backed key-value slot store.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Path returns the database path inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// Open opens or creates the database at dbPath and applies migrations.
func Open(dbPath string, log zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	return &Store{
		db:  db,
		log: log.With().Str("component", "store").Logger(),
	}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value of key. ok is false when the slot is absent.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return value, true, nil
}

// Set writes a single slot.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(upsertSQL, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

const upsertSQL = `INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// Load reads every slot into a snapshot. It never fails: unreadable slots
// come back empty. On first run the starter presets are seeded with fresh
// ids and written back, so their ids stay stable across loads.
func (s *Store) Load() model.Snapshot {
	var snap model.Snapshot
	snap.Transactions, _ = loadSlot[model.Transaction](s, KeyTransactions)
	snap.Goals, _ = loadSlot[model.Goal](s, KeyGoals)
	snap.Liabilities, _ = loadSlot[model.Liability](s, KeyLiabilities)

	var present bool
	snap.Presets, present = loadSlot[model.QuickPreset](s, KeyPresets)
	if !present {
		snap.Presets = starterPresets()
		s.seedPresets(snap.Presets)
	}

	url, _, err := s.Get(KeyWebhookURL)
	if err != nil {
		s.log.Warn().Err(err).Str("slot", KeyWebhookURL).Msg("slot unreadable, using empty")
	}
	snap.WebhookURL = url

	return snap
}

// loadSlot decodes a JSON array slot. present is false only when the slot
// has never been written; a corrupt slot is present and decodes as empty.
func loadSlot[T any](s *Store, key string) (items []T, present bool) {
	raw, ok, err := s.Get(key)
	if err != nil {
		s.log.Warn().Err(err).Str("slot", key).Msg("slot unreadable, using empty")
		return nil, true
	}
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn().Err(err).Str("slot", key).Int("bytes", len(raw)).Msg("slot corrupt, using empty")
		s.keepCorrupt(key, raw)
		return nil, true
	}
	return items, true
}

// CorruptSuffix marks the key holding the last undecodable value of a
// slot. Persist never writes these keys.
const CorruptSuffix = ".corrupt"

// keepCorrupt copies an undecodable slot value aside before the next
// Persist replaces it.
func (s *Store) keepCorrupt(key, raw string) {
	if err := s.Set(key+CorruptSuffix, raw); err != nil {
		s.log.Warn().Err(err).Str("slot", key).Msg("saving corrupt slot copy")
		return
	}
	s.log.Warn().Str("slot", key).Str("copy", key+CorruptSuffix).Msg("corrupt slot value kept")
}

func (s *Store) seedPresets(presets []model.QuickPreset) {
	b, err := json.Marshal(presets)
	if err == nil {
		err = s.Set(KeyPresets, string(b))
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("seeding starter presets")
	}
}

func starterPresets() []model.QuickPreset {
	presets := model.StarterPresets()
	for i := range presets {
		presets[i].ID = uuid.NewString()
	}
	return presets
}

// Persist writes every slot of snap in one transaction.
func (s *Store) Persist(snap model.Snapshot) error {
	values := make(map[string]string, 5)
	for key, v := range map[string]any{
		KeyTransactions: nonNil(snap.Transactions),
		KeyGoals:        nonNil(snap.Goals),
		KeyLiabilities:  nonNil(snap.Liabilities),
		KeyPresets:      nonNil(snap.Presets),
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding slot %s: %w", key, err)
		}
		values[key] = string(b)
	}
	values[KeyWebhookURL] = snap.WebhookURL

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning persist: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for key, v := range values {
		if _, err := tx.Exec(upsertSQL, key, v, now); err != nil {
			return fmt.Errorf("writing slot %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing persist: %w", err)
	}
	return nil
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// UpdatedAt returns when key was last written, or zero if never.
func (s *Store) UpdatedAt(key string) (time.Time, error) {
	var raw string
	err := s.db.QueryRow("SELECT updated_at FROM slots WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading slot %s: %w", key, err)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing updated_at for %s: %w", key, err)
	}
	return t, nil
}
