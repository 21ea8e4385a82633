package cache

import (
	"time"

	"github.com/khabarhub/khabarhub/app/parse"
)

// Entry is one category's cached aggregation output. Entries are written
// wholesale on refresh, never partially updated.
type Entry struct {
	Category  string
	Items     []parse.Article
	FetchedAt time.Time
}

// Store persists category cache entries. Load returns nil when no entry has
// ever been written for the category.
type Store interface {
	Load(category string) (*Entry, error)
	Save(category string, items []parse.Article, fetchedAt time.Time) error
	Delete(category string) error
	Close() error
}
