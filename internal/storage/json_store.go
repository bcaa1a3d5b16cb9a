package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore keeps every slot in one human-readable file, rewritten whole on
// each change.
type JSONStore struct {
	path  string
	mu    sync.Mutex
	slots map[string]json.RawMessage
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = map[string]json.RawMessage{}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized at %s", s.path)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	slots := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &slots); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.mu.Lock()
	s.slots = slots
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		return nil, false, ErrNotLoaded
	}
	raw, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	// Values that were not JSON are stored as JSON strings.
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return []byte(str), true, nil
	}
	return append([]byte(nil), raw...), true, nil
}

func (s *JSONStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		return ErrNotLoaded
	}
	if json.Valid(value) && !isJSONString(value) {
		s.slots[key] = append(json.RawMessage(nil), value...)
	} else {
		encoded, err := json.Marshal(string(value))
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		s.slots[key] = encoded
	}
	return s.save()
}

func (s *JSONStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		return ErrNotLoaded
	}
	delete(s.slots, key)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// save writes to a temp file in the same directory and renames it over the
// store so readers never see a partial file. Callers hold mu.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.slots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".pa-store-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func isJSONString(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '"':
			return true
		default:
			return false
		}
	}
	return false
}
