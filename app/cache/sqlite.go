package cache

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/khabarhub/khabarhub/app/parse"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps one row per category. Saves are single upsert
// statements, so concurrent readers always observe a complete entry and
// overlapping refreshes degrade to last-writer-wins.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the cache database at the given
// path and applies pending migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// modernc sqlite allows a single writer; serializing through one
	// connection avoids SQLITE_BUSY under concurrent refreshes.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load(category string) (*Entry, error) {
	var payload []byte
	var fetchedAt int64

	err := s.db.QueryRow(`SELECT payload, fetched_at FROM news_cache WHERE category = ?`, category).
		Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cache entry: %w", err)
	}

	var items []parse.Article
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry for %q: %w", category, err)
	}

	return &Entry{
		Category:  category,
		Items:     items,
		FetchedAt: time.Unix(fetchedAt, 0),
	}, nil
}

func (s *SQLiteStore) Save(category string, items []parse.Article, fetchedAt time.Time) error {
	if items == nil {
		items = []parse.Article{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry for %q: %w", category, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO news_cache (category, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (category) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, category, payload, fetchedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Delete(category string) error {
	if _, err := s.db.Exec(`DELETE FROM news_cache WHERE category = ?`, category); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
