package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNotLoaded is returned by Save before the first Load. Saving earlier
// would overwrite real progress with blank defaults.
var ErrNotLoaded = errors.New("progress not loaded")

// Mirror serializes one flow's state under a fixed key.
type Mirror[T any] struct {
	store  Store
	key    string
	logger *slog.Logger

	mu     sync.Mutex
	loaded bool
}

func NewMirror[T any](store Store, key string, logger *slog.Logger) *Mirror[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Mirror[T]{store: store, key: key, logger: logger}
}

func (m *Mirror[T]) Key() string { return m.key }

// Load reads the saved state. A malformed blob is logged and reported as
// not found. Saves are allowed once Load has run, whatever it returned,
// so a failed read starts the flow fresh.
func (m *Mirror[T]) Load() (T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	data, ok, err := m.store.Get(m.key)
	m.loaded = true
	if err != nil {
		return zero, false, fmt.Errorf("loading %s: %w", m.key, err)
	}
	if !ok {
		return zero, false, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		m.logger.Warn("discarding malformed progress", "key", m.key, "error", err)
		return zero, false, nil
	}
	return v, true, nil
}

func (m *Mirror[T]) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Save overwrites the stored state with v.
func (m *Mirror[T]) Save(v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return fmt.Errorf("saving %s: %w", m.key, ErrNotLoaded)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", m.key, err)
	}
	if err := m.store.Set(m.key, data); err != nil {
		return fmt.Errorf("saving %s: %w", m.key, err)
	}
	return nil
}

// Clear deletes the stored state, on completion or reset.
func (m *Mirror[T]) Clear() error {
	if err := m.store.Remove(m.key); err != nil {
		return fmt.Errorf("clearing %s: %w", m.key, err)
	}
	return nil
}
