package aggregate

import (
	"context"
	"log/slog"
	"sort"

	"github.com/khabarhub/khabarhub/app/config"
	"github.com/khabarhub/khabarhub/app/fetch"
	"github.com/khabarhub/khabarhub/app/parse"
)

// ResolverInterface is the fetch contract the aggregator fans out over.
type ResolverInterface interface {
	ResolveParallel(ctx context.Context, urls []string) map[string][]byte
}

var _ ResolverInterface = (*fetch.Resolver)(nil)

// Aggregator turns one category's feed sources into a merged, deduplicated,
// fairly interleaved article list.
type Aggregator struct {
	resolver ResolverInterface
}

func NewAggregator(resolver ResolverInterface) *Aggregator {
	return &Aggregator{resolver: resolver}
}

// Run fetches all sources concurrently, parses each payload by its declared
// type, and merges the results. A failed fetch or parse for one source never
// aborts the category; aggregation proceeds with whatever succeeded.
func (a *Aggregator) Run(ctx context.Context, category string, sources []config.Source) []parse.Article {
	if len(sources) == 0 {
		return nil
	}

	payloads := a.resolver.ResolveParallel(ctx, distinctURLs(sources))

	seen := make(map[string]bool)
	var accepted []parse.Article
	for _, source := range sources {
		payload, ok := payloads[source.URL]
		if !ok {
			slog.Warn("Source fetch failed, skipping", "category", category, "source", source.SourceName, "url", source.URL)
			continue
		}

		articles := parse.ForType(string(source.Type)).Parse(payload, source.URL, source.SourceName)
		for _, article := range articles {
			if article.Title == "" || article.Link == "" || seen[article.Link] {
				continue
			}
			seen[article.Link] = true
			accepted = append(accepted, article)
		}
	}

	slog.Debug("Category aggregated", "category", category, "sources", len(sources), "fetched", len(payloads), "articles", len(accepted))

	return interleaveBySource(accepted)
}

// distinctURLs preserves configuration order while fetching each shared URL
// only once.
func distinctURLs(sources []config.Source) []string {
	seen := make(map[string]bool, len(sources))
	urls := make([]string, 0, len(sources))
	for _, source := range sources {
		if seen[source.URL] {
			continue
		}
		seen[source.URL] = true
		urls = append(urls, source.URL)
	}
	return urls
}

// interleaveBySource groups articles by source name, sorts each group
// newest-first, and interleaves the groups round-robin so no single prolific
// source monopolizes the head of the list.
func interleaveBySource(articles []parse.Article) []parse.Article {
	var order []string
	groups := make(map[string][]parse.Article)
	for _, article := range articles {
		if _, ok := groups[article.SourceName]; !ok {
			order = append(order, article.SourceName)
		}
		groups[article.SourceName] = append(groups[article.SourceName], article)
	}

	maxLen := 0
	for _, name := range order {
		group := groups[name]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].PublishedAt.After(group[j].PublishedAt)
		})
		if len(group) > maxLen {
			maxLen = len(group)
		}
	}

	mixed := make([]parse.Article, 0, len(articles))
	for i := 0; i < maxLen; i++ {
		for _, name := range order {
			if group := groups[name]; i < len(group) {
				mixed = append(mixed, group[i])
			}
		}
	}

	return mixed
}
