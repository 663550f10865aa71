package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/marks/internal/model"
)

// StateKey is the single key the whole bookmark state is stored under.
const StateKey = "bookmarkState"

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage defines the interface for persisting bookmark state.
type Storage interface {
	Load() (*model.Store, error)
	Save(store *model.Store) error
}

// decodeState parses a persisted state document.
func decodeState(data []byte) (*model.Store, error) {
	var store model.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StateKey, err)
	}
	store.Normalize()
	return &store, nil
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the store from the JSON file.
// Returns an empty store if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewStore(), nil
		}
		return nil, err
	}
	return decodeState(data)
}

// Save writes the store to the JSON file.
// The file is replaced atomically so a failed write keeps the previous state.
func (s *JSONStorage) Save(store *model.Store) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".bookmarks-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// MemoryStorage keeps the encoded state in memory.
type MemoryStorage struct {
	data  []byte
	Saves int
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load decodes the last saved state, or returns an empty store.
func (s *MemoryStorage) Load() (*model.Store, error) {
	if s.data == nil {
		return model.NewStore(), nil
	}
	return decodeState(s.data)
}

// Save encodes the store, as the other backends do.
func (s *MemoryStorage) Save(store *model.Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return err
	}
	s.data = data
	s.Saves++
	return nil
}

// DefaultDataDir returns the default data directory: ~/.config/marks
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "marks"), nil
}

// DefaultPath returns the default file for a backend inside the data directory.
func DefaultPath(backend string) (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	switch backend {
	case BackendSQLite:
		return filepath.Join(dir, "marks.db"), nil
	default:
		return filepath.Join(dir, "bookmarks.json"), nil
	}
}

// Open opens the named backend. An empty path selects the backend's default.
// The returned close function releases the backend; it is never nil.
func Open(backend, path string) (Storage, func() error, error) {
	noop := func() error { return nil }

	if backend == "" {
		backend = BackendJSON
	}
	if backend == BackendMemory {
		return NewMemoryStorage(), noop, nil
	}

	if path == "" {
		var err error
		path, err = DefaultPath(backend)
		if err != nil {
			return nil, noop, err
		}
	}

	switch backend {
	case BackendJSON:
		return NewJSONStorage(path), noop, nil
	case BackendSQLite:
		s, err := NewSQLiteStorage(path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
