package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type RefreshCategoryTask struct {
	Task
	refresher CategoryRefresher
}

func NewRefreshCategoryTask(category string, refresher CategoryRefresher) *RefreshCategoryTask {
	return &RefreshCategoryTask{
		Task:      NewTask(TaskTypeRefreshCategory, category),
		refresher: refresher,
	}
}

func (t *RefreshCategoryTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.refresher.Refresh(ctx, t.Category)
	if err != nil {
		return fmt.Errorf("failed to refresh category: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshCategory",
		"category", t.Category,
		"duration", t.GetDuration(),
		"items", len(items))

	return nil
}
