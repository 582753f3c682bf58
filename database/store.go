package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// BlobStore определяет интерфейс хранилища коллекций.
// Коллекция читается и записывается целиком по ключу, частичных обновлений нет.
type BlobStore interface {
	// Load возвращает содержимое ключа. ok=false, если ключ ещё не записывался.
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
}

// MemoryStore — in‑memory реализация.
type MemoryStore struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryStore создаёт новый MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Load(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryStore) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// JSONStore — реализация, сохраняющая все ключи в одном JSON-файле.
type JSONStore struct {
	filename string
	mu       sync.Mutex
}

// NewJSONStore создаёт новый JSONStore с указанным файлом.
// Если файла нет, он создаётся с пустым объектом.
func NewJSONStore(filename string) (*JSONStore, error) {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		if err := os.WriteFile(filename, []byte("{}"), 0644); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filename, err)
		}
	}
	return &JSONStore{filename: filename}, nil
}

func (j *JSONStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(j.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", j.filename, err)
	}
	if len(data) == 0 {
		return make(map[string]json.RawMessage), nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", j.filename, err)
	}
	if m == nil {
		m = make(map[string]json.RawMessage)
	}
	return m, nil
}

func (j *JSONStore) save(m map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := os.WriteFile(j.filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", j.filename, err)
	}
	return nil
}

func (j *JSONStore) Load(key string) ([]byte, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	m, err := j.load()
	if err != nil {
		return nil, false, err
	}
	raw, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(raw), true, nil
}

func (j *JSONStore) Save(key string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	m, err := j.load()
	if err != nil {
		return err
	}
	m[key] = json.RawMessage(data)
	return j.save(m)
}

// NewStore возвращает реализацию BlobStore в зависимости от типа хранения.
// Для sqlite и postgres source трактуется как путь к файлу базы или DSN.
func NewStore(driver, source string) (BlobStore, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "json":
		return NewJSONStore(source)
	case "sqlite", "sqlite3", "postgres":
		return NewSQLStore(driver, source)
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}

// LoadJSON читает ключ и декодирует его в v. Возвращает false, если ключ пуст.
func LoadJSON(s BlobStore, key string, v any) (bool, error) {
	data, ok, err := s.Load(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON кодирует v и записывает под ключом key.
func SaveJSON(s BlobStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Save(key, data)
}
