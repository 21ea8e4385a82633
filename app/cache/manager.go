package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/khabarhub/khabarhub/app/config"
	"github.com/khabarhub/khabarhub/app/parse"
)

// State describes the age bucket of a category's cache entry.
type State int

const (
	StateAbsent State = iota
	StateFresh
	StateStale
	StateExpired
)

// AggregatorInterface is the recomputation contract the manager drives.
type AggregatorInterface interface {
	Run(ctx context.Context, category string, sources []config.Source) []parse.Article
}

// Manager decides, per request, whether a category is served from cache or
// re-aggregated. Upstream breakage never surfaces as an error to callers;
// the degradation path is always "fewer or no items".
type Manager struct {
	store      Store
	aggregator AggregatorInterface
	catalog    *config.Catalog
	fresh      time.Duration
	stale      time.Duration
	now        func() time.Time
}

func NewManager(store Store, aggregator AggregatorInterface, catalog *config.Catalog, fresh, stale time.Duration) *Manager {
	return &Manager{
		store:      store,
		aggregator: aggregator,
		catalog:    catalog,
		fresh:      fresh,
		stale:      stale,
		now:        time.Now,
	}
}

// SetClock overrides the manager's clock. Intended for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Get serves one category. Fresh entries are returned verbatim. Stale or
// absent entries trigger a synchronous refresh when canFetch allows it;
// otherwise whatever exists is served regardless of age. force invalidates
// the current entry unconditionally first.
func (m *Manager) Get(ctx context.Context, category string, canFetch, force bool) []parse.Article {
	if force {
		if err := m.store.Delete(category); err != nil {
			slog.Error("Failed to invalidate cache entry", "category", category, "error", err)
		}
	}

	entry := m.load(category)
	if entry != nil {
		age := m.now().Sub(entry.FetchedAt)
		if age < m.fresh {
			return entry.Items
		}
		// Old data beats blocking when fetching is not permitted.
		if !canFetch {
			return entry.Items
		}
	} else if !canFetch {
		return []parse.Article{}
	}

	items, err := m.Refresh(ctx, category)
	if err != nil {
		slog.Error("Refresh failed", "category", category, "error", err)
		if entry != nil {
			return entry.Items
		}
		return []parse.Article{}
	}

	return items
}

// Refresh re-aggregates a category and overwrites its cache entry. When
// every source fails and a non-empty prior entry exists, the prior entry is
// kept untouched: stale-but-nonempty beats empty.
func (m *Manager) Refresh(ctx context.Context, category string) ([]parse.Article, error) {
	feeds, ok := m.catalog.Feeds(category)
	if !ok || len(feeds) == 0 {
		slog.Warn("No feed sources configured", "category", category)
		return []parse.Article{}, nil
	}

	items := m.aggregator.Run(ctx, category, feeds)
	if len(items) == 0 {
		if prior := m.load(category); prior != nil && len(prior.Items) > 0 {
			slog.Warn("All sources failed, keeping previous cache entry", "category", category)
			return prior.Items, nil
		}
	}

	if err := m.store.Save(category, items, m.now()); err != nil {
		return items, err
	}

	return items, nil
}

// Snapshot returns whatever is cached for a category without any fetching.
func (m *Manager) Snapshot(category string) []parse.Article {
	if entry := m.load(category); entry != nil {
		return entry.Items
	}
	return []parse.Article{}
}

// State classifies a category's cache entry by age.
func (m *Manager) State(category string) State {
	entry := m.load(category)
	if entry == nil {
		return StateAbsent
	}

	age := m.now().Sub(entry.FetchedAt)
	switch {
	case age < m.fresh:
		return StateFresh
	case age < m.stale:
		return StateStale
	default:
		return StateExpired
	}
}

// IsFresh reports whether a category needs no refresh right now.
func (m *Manager) IsFresh(category string) bool {
	return m.State(category) == StateFresh
}

// StaleCategories lists every configured category whose entry is not fresh,
// in configured order.
func (m *Manager) StaleCategories() []string {
	var stale []string
	for _, name := range m.catalog.CategoryNames() {
		if !m.IsFresh(name) {
			stale = append(stale, name)
		}
	}
	return stale
}

func (m *Manager) load(category string) *Entry {
	entry, err := m.store.Load(category)
	if err != nil {
		slog.Error("Failed to load cache entry", "category", category, "error", err)
		return nil
	}
	return entry
}
