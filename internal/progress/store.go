// Package progress mirrors in-progress flow state to a local durable store
// so a restarted flow resumes where it left off.
package progress

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Fixed store keys, one per flow.
const (
	KeyQuiz        = "careerClarityQuiz"
	KeyProblems    = "flowFinderProblems"
	KeySkills      = "flowFinderSkills"
	KeyPersona     = "flowFinderPersona"
	KeyIntegration = "flowFinderIntegration"
)

// AllKeys lists every flow key.
var AllKeys = []string{KeyQuiz, KeyProblems, KeySkills, KeyPersona, KeyIntegration}

// Store is a flat key/value blob store.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte) error
	Remove(key string) error
}

// FileStore keeps one JSON file per key in a directory. Writes go through a
// temp file and rename while holding a lock file, so readers in other
// processes never see a partial blob.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) lock(key string) (*flock.Flock, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating progress dir %s: %w", s.dir, err)
	}
	l := flock.New(s.path(key) + ".lock")
	if err := l.Lock(); err != nil {
		return nil, fmt.Errorf("locking %s: %w", key, err)
	}
	return l, nil
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

func (s *FileStore) Set(key string, data []byte) error {
	l, err := s.lock(key)
	if err != nil {
		return err
	}
	defer l.Unlock()
	return atomicWrite(s.path(key), data)
}

func (s *FileStore) Remove(key string) error {
	l, err := s.lock(key)
	if err != nil {
		return err
	}
	defer l.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}
	committed = true
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), d...), true, nil
}

func (s *MemoryStore) Set(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
