package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khabarhub/khabarhub/app/config"
	"github.com/khabarhub/khabarhub/app/parse"
	"github.com/khabarhub/khabarhub/app/tasks"
)

func NewHandler(manager ManagerInterface, catalog *config.Catalog, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		manager:   manager,
		catalog:   catalog,
		scheduler: scheduler,
	}
}

// GetNews serves one category from cache (refetching when stale), or, for
// category=all, an immediate snapshot of every category with stale ones
// scheduled for background refresh. Upstream breakage surfaces only as
// fewer or no items, never as an error payload.
func (h *Handler) GetNews(c *gin.Context) {
	category := c.DefaultQuery("category", "fresh")
	force := c.Query("refresh") == "true"

	c.Header("Cache-Control", "public, max-age=60")

	if category == "all" {
		h.batch(c, force)
		return
	}

	items := h.manager.Get(c.Request.Context(), category, true, force)
	if items == nil {
		items = []parse.Article{}
	}

	c.JSON(http.StatusOK, CategoryResponse{
		Category:  category,
		Items:     items,
		Timestamp: time.Now().Unix(),
	})
}

// batch responds with cached snapshots only; the response never blocks on a
// refresh. Categories found stale (or all of them when force is set) are
// handed to the background scheduler after collection.
func (h *Handler) batch(c *gin.Context, force bool) {
	names := h.catalog.CategoryNames()
	categories := make(map[string][]parse.Article, len(names))
	var toRefresh []string

	for _, name := range names {
		items := h.manager.Snapshot(name)
		if items == nil {
			items = []parse.Article{}
		}
		categories[name] = items

		if force || !h.manager.IsFresh(name) {
			toRefresh = append(toRefresh, name)
		}
	}

	c.JSON(http.StatusOK, BatchResponse{
		Mode:       "batch",
		Categories: categories,
		Timestamp:  time.Now().Unix(),
	})

	for _, name := range toRefresh {
		task := tasks.NewRefreshCategoryTask(name, h.manager)
		if err := h.scheduler.EnqueueTask(task); err != nil {
			slog.Warn("Failed to enqueue background refresh", "category", name, "error", err)
		}
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"categories": len(h.catalog.Categories),
	}

	fresh := 0
	for _, name := range h.catalog.CategoryNames() {
		if h.manager.IsFresh(name) {
			fresh++
		}
	}
	health["fresh_categories"] = fresh

	c.JSON(http.StatusOK, health)
}
