// Package storage implements the primary store: one JSON document holding
// every collection, persisted through a pluggable key-value backend, plus the
// document blob store for binary attachments.
//
// Every mutation runs through Store.mutate, which holds the store lock for
// the whole load-mutate-save cycle. That makes each CRUD operation atomic
// with respect to other goroutines of this process and guarantees the save
// always follows the mutation, instead of relying on call-site discipline.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"lettingscope/internal/models"
)

// DataKey is the backend key under which the primary record is stored.
const DataKey = "data.json"

// Store is the primary store handle. Construct once per process and share.
type Store struct {
	kv KV
	mu sync.Mutex
}

// NewStore returns a Store over the given backend.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load reads the full record. If nothing is stored yet, or the stored bytes
// do not parse, a default record is persisted and returned; parse failure is
// treated as "no data yet" and never surfaces to the caller.
func (s *Store) Load() *models.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads without locking; callers must hold s.mu.
func (s *Store) load() *models.AppData {
	raw, ok, err := s.kv.Get(DataKey)
	if err != nil {
		slog.Error("Failed to read primary store, using defaults", "err", err)
		return models.DefaultAppData()
	}
	if !ok {
		d := models.DefaultAppData()
		s.persist(d)
		return d
	}
	var d models.AppData
	if err := json.Unmarshal(raw, &d); err != nil {
		slog.Error("Primary store is corrupt, resetting to defaults", "err", err)
		d2 := models.DefaultAppData()
		s.persist(d2)
		return d2
	}
	normalize(&d)
	return &d
}

// normalize replaces nil collections with empty slices so the persisted JSON
// always carries all five collection keys.
func normalize(d *models.AppData) {
	if d.Properties == nil {
		d.Properties = []models.Property{}
	}
	if d.Bills == nil {
		d.Bills = []models.Bill{}
	}
	if d.Chasers == nil {
		d.Chasers = []models.Chaser{}
	}
	if d.Notes == nil {
		d.Notes = []models.Note{}
	}
	if d.Activities == nil {
		d.Activities = []models.Activity{}
	}
	if d.Version == "" {
		d.Version = models.SchemaVersion
	}
}

// persist serializes and writes the record, logging failures. Used on the
// load path where an error cannot be surfaced.
func (s *Store) persist(d *models.AppData) {
	if err := s.save(d); err != nil {
		slog.Error("Failed to persist primary store", "err", err)
	}
}

// save serializes and writes the full record; callers must hold s.mu.
func (s *Store) save(d *models.AppData) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal primary store: %w", err)
	}
	if err := s.kv.Set(DataKey, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// mutate is the single entry point for all mutations: it loads the record,
// applies fn, and persists the result, all under the store lock. If fn
// returns an error nothing is written.
func (s *Store) mutate(fn func(d *models.AppData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.load()
	if err := fn(d); err != nil {
		return err
	}
	return s.save(d)
}

// Update applies fn to the record under the store lock and persists the
// result. For cross-collection maintenance that the per-entity operations do
// not cover; fn must not retain the record past its return.
func (s *Store) Update(fn func(d *models.AppData) error) error {
	return s.mutate(fn)
}

// Replace overwrites the whole record, stamping the current schema version.
// Used by backup import; no merge with existing data is attempted.
func (s *Store) Replace(d *models.AppData) error {
	normalize(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(d)
}

// Clear resets the primary store to the default empty record. Document blobs
// are not touched; see DocStore sweeping.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(models.DefaultAppData())
}

// Settings returns the stored settings.
func (s *Store) Settings() models.AppSettings {
	return s.Load().Settings
}

// UpdateSettings replaces the stored settings.
func (s *Store) UpdateSettings(settings models.AppSettings) error {
	return s.mutate(func(d *models.AppData) error {
		d.Settings = settings
		return nil
	})
}
