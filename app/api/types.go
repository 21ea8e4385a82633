package api

import (
	"context"

	"github.com/khabarhub/khabarhub/app/cache"
	"github.com/khabarhub/khabarhub/app/config"
	"github.com/khabarhub/khabarhub/app/parse"
	"github.com/khabarhub/khabarhub/app/tasks"
)

type ManagerInterface interface {
	Get(ctx context.Context, category string, canFetch, force bool) []parse.Article
	Snapshot(category string) []parse.Article
	IsFresh(category string) bool
	Refresh(ctx context.Context, category string) ([]parse.Article, error)
	StaleCategories() []string
}

var _ ManagerInterface = (*cache.Manager)(nil)

type Handler struct {
	manager   ManagerInterface
	catalog   *config.Catalog
	scheduler tasks.TaskSchedulerInterface
}

// CategoryResponse is the payload for a single-category request.
type CategoryResponse struct {
	Category  string          `json:"category"`
	Items     []parse.Article `json:"items"`
	Timestamp int64           `json:"timestamp"`
}

// BatchResponse is the payload for the category=all request: a cached
// snapshot of every configured category.
type BatchResponse struct {
	Mode       string                     `json:"mode"`
	Categories map[string][]parse.Article `json:"categories"`
	Timestamp  int64                      `json:"timestamp"`
}
