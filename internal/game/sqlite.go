package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/user/hsk-life/internal/interfaces"
	_ "modernc.org/sqlite"
)

// dialect holds the statements that differ between SQL backends
type dialect struct {
	setup  []string
	get    string
	upsert string
}

var dialects = map[string]dialect{
	// mattn/go-sqlite3 (cgo) registers "sqlite3", modernc.org/sqlite registers "sqlite"
	"sqlite3": sqliteDialect,
	"sqlite":  sqliteDialect,
	"postgres": {
		setup: []string{
			`CREATE TABLE IF NOT EXISTS saves (
				key TEXT PRIMARY KEY,
				value BYTEA NOT NULL,
				updated_at_ms BIGINT NOT NULL
			)`,
		},
		get: `SELECT value FROM saves WHERE key = $1`,
		upsert: `INSERT INTO saves (key, value, updated_at_ms) VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at_ms = excluded.updated_at_ms`,
	},
}

var sqliteDialect = dialect{
	setup: []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`CREATE TABLE IF NOT EXISTS saves (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at_ms INTEGER NOT NULL
		);`,
	},
	get: `SELECT value FROM saves WHERE key = ?`,
	upsert: `INSERT INTO saves (key, value, updated_at_ms) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at_ms = excluded.updated_at_ms`,
}

// SQLStore keeps save data in a single key-value table
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

var _ interfaces.KeyValueStore = (*SQLStore)(nil)

// NewSQLiteStore opens (and if needed creates) a SQLite database with the cgo driver
func NewSQLiteStore(path string) (*SQLStore, error) {
	return NewSQLStore("sqlite3", path)
}

// NewSQLStore opens a database with one of the drivers sqlite3, sqlite or postgres
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("empty %s dsn", driver)
	}

	sqlite := driver != "postgres"
	if sqlite && dsn != ":memory:" {
		if parent := filepath.Dir(dsn); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if sqlite {
		// One writer at a time; also keeps ":memory:" on a single connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	for _, query := range d.setup {
		if _, err := db.ExecContext(ctx, query); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schemas: %w", err)
		}
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// Get reads the value stored under key
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value stored under key
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close closes the database
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// OpenKeyValueStore opens the save backend named by driver: file, memory, or one
// of the SQL drivers
func OpenKeyValueStore(driver, dsn string) (interfaces.KeyValueStore, error) {
	switch driver {
	case "", "file":
		return NewFileStore(dsn)
	case "memory":
		return NewMemoryStore(), nil
	}
	if _, ok := dialects[driver]; ok {
		return NewSQLStore(driver, dsn)
	}
	return nil, fmt.Errorf("unknown database driver %q", driver)
}
