package tasks

import (
	"context"

	"github.com/khabarhub/khabarhub/app/parse"
)

// TaskSchedulerInterface defines the background task executor contract: a
// bounded queue drained by a worker pool, plus a periodic tick that
// re-enqueues refreshes for categories that have gone stale.
// The contract for enqueued work is best effort: no ordering guarantee
// across tasks and no retry beyond the per-task retry budget.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// CategoryRefresher is the slice of the cache manager the scheduler and its
// tasks need: recompute one category, and report which ones are stale.
type CategoryRefresher interface {
	Refresh(ctx context.Context, category string) ([]parse.Article, error)
	StaleCategories() []string
}
