package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const blobSchema = `
	CREATE TABLE IF NOT EXISTS blobs (
		blob_key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)
`

// SQLStore — реализация BlobStore поверх SQL базы (sqlite или postgres).
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore подключается к базе и создаёт таблицу, если её нет.
func NewSQLStore(driver, source string) (*SQLStore, error) {
	const op = "database.NewSQLStore"

	if driver == "sqlite" {
		driver = "sqlite3"
	}
	if driver == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(source), 0755); err != nil {
			return nil, fmt.Errorf("%s: failed to create data directory: %w", op, err)
		}
	}

	db, err := sqlx.Connect(driver, source)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	if driver == "sqlite3" {
		// sqlite не поддерживает несколько писателей
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(blobSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to create blobs table: %w", op, err)
	}
	return &SQLStore{db: db}, nil
}

// NewSQLStoreWithDB оборачивает уже открытое подключение.
func NewSQLStoreWithDB(db *sqlx.DB) (*SQLStore, error) {
	if _, err := db.Exec(blobSchema); err != nil {
		return nil, fmt.Errorf("failed to create blobs table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Load(key string) ([]byte, bool, error) {
	var value string
	err := s.db.Get(&value, s.db.Rebind("SELECT value FROM blobs WHERE blob_key = ?"), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLStore) Save(key string, data []byte) error {
	query := s.db.Rebind(`
		INSERT INTO blobs (blob_key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (blob_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if _, err := s.db.Exec(query, key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Close закрывает подключение к базе.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
