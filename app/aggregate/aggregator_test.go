package aggregate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/khabarhub/khabarhub/app/config"
)

// stubResolver returns canned payloads keyed by URL and counts resolutions.
type stubResolver struct {
	payloads map[string][]byte
	calls    [][]string
}

func (s *stubResolver) ResolveParallel(_ context.Context, urls []string) map[string][]byte {
	s.calls = append(s.calls, urls)
	results := make(map[string][]byte)
	for _, u := range urls {
		if body, ok := s.payloads[u]; ok {
			results[u] = body
		}
	}
	return results
}

func rssFeed(links ...string) []byte {
	feed := `<?xml version="1.0"?><rss version="2.0"><channel>`
	for i, link := range links {
		when := time.Date(2023, 7, 3, 12, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour)
		feed += fmt.Sprintf(
			`<item><title>Item %d</title><link>%s</link><pubDate>%s</pubDate></item>`,
			i, link, when.Format(time.RFC1123Z),
		)
	}
	return []byte(feed + `</channel></rss>`)
}

func TestRunMergesAndInterleaves(t *testing.T) {
	resolver := &stubResolver{payloads: map[string][]byte{
		"https://a.example/feed": rssFeed("https://a.example/1", "https://a.example/2", "https://a.example/3"),
		"https://b.example/feed": rssFeed("https://b.example/1"),
		"https://c.example/feed": rssFeed("https://c.example/1", "https://c.example/2"),
	}}
	aggregator := NewAggregator(resolver)

	sources := []config.Source{
		{URL: "https://a.example/feed", Type: config.SourceTypeRSS, SourceName: "A"},
		{URL: "https://b.example/feed", Type: config.SourceTypeRSS, SourceName: "B"},
		{URL: "https://c.example/feed", Type: config.SourceTypeRSS, SourceName: "C"},
	}
	items := aggregator.Run(context.Background(), "fresh", sources)

	if len(items) != 6 {
		t.Fatalf("Expected 6 items, got: %d", len(items))
	}

	// Round-robin across sources, each group newest-first.
	wantSources := []string{"A", "B", "C", "A", "C", "A"}
	for i, want := range wantSources {
		if items[i].SourceName != want {
			t.Errorf("Position %d: expected source %s, got: %s", i, want, items[i].SourceName)
		}
	}

	// Within a group ordering is newest first.
	if items[0].Link != "https://a.example/1" {
		t.Errorf("Expected newest A item first, got: %s", items[0].Link)
	}
	if items[3].Link != "https://a.example/2" {
		t.Errorf("Expected second-newest A item at position 3, got: %s", items[3].Link)
	}
}

func TestRunDeduplicatesByLink(t *testing.T) {
	resolver := &stubResolver{payloads: map[string][]byte{
		"https://a.example/feed": rssFeed("https://shared.example/story", "https://a.example/2"),
		"https://b.example/feed": rssFeed("https://shared.example/story"),
	}}
	aggregator := NewAggregator(resolver)

	sources := []config.Source{
		{URL: "https://a.example/feed", Type: config.SourceTypeRSS, SourceName: "A"},
		{URL: "https://b.example/feed", Type: config.SourceTypeRSS, SourceName: "B"},
	}
	items := aggregator.Run(context.Background(), "fresh", sources)

	if len(items) != 2 {
		t.Fatalf("Expected 2 items after dedup, got: %d", len(items))
	}
	for _, item := range items {
		if item.SourceName == "B" {
			t.Error("Expected duplicate B item to be dropped")
		}
	}
}

func TestRunSkipsFailedSources(t *testing.T) {
	resolver := &stubResolver{payloads: map[string][]byte{
		"https://a.example/feed": rssFeed("https://a.example/1"),
	}}
	aggregator := NewAggregator(resolver)

	sources := []config.Source{
		{URL: "https://a.example/feed", Type: config.SourceTypeRSS, SourceName: "A"},
		{URL: "https://down.example/feed", Type: config.SourceTypeRSS, SourceName: "Down"},
	}
	items := aggregator.Run(context.Background(), "fresh", sources)

	if len(items) != 1 {
		t.Fatalf("Expected 1 item from the healthy source, got: %d", len(items))
	}
	if items[0].SourceName != "A" {
		t.Errorf("Expected source A, got: %s", items[0].SourceName)
	}
}

func TestRunFetchesSharedURLOnce(t *testing.T) {
	resolver := &stubResolver{payloads: map[string][]byte{
		"https://shared.example/feed": rssFeed("https://shared.example/1"),
	}}
	aggregator := NewAggregator(resolver)

	sources := []config.Source{
		{URL: "https://shared.example/feed", Type: config.SourceTypeRSS, SourceName: "First"},
		{URL: "https://shared.example/feed", Type: config.SourceTypeRSS, SourceName: "Second"},
	}
	aggregator.Run(context.Background(), "fresh", sources)

	if len(resolver.calls) != 1 {
		t.Fatalf("Expected 1 resolve call, got: %d", len(resolver.calls))
	}
	if len(resolver.calls[0]) != 1 {
		t.Errorf("Expected shared URL fetched once, got %d URLs", len(resolver.calls[0]))
	}
}

func TestRunEmptySources(t *testing.T) {
	aggregator := NewAggregator(&stubResolver{})
	if items := aggregator.Run(context.Background(), "empty", nil); len(items) != 0 {
		t.Errorf("Expected no items for empty source list, got: %d", len(items))
	}
}
