package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
)

// DefaultPlausibleFloor is the minimum payload size treated as real content.
// Smaller responses are usually block pages or redirect stubs.
const DefaultPlausibleFloor = 500

// Fetcher is the transport contract the resolver runs on.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

var _ Fetcher = (*Client)(nil)

// Resolver fetches a URL directly first and falls back through an ordered
// list of relay endpoint templates until one yields a plausible payload.
type Resolver struct {
	client  Fetcher
	proxies []string
	floor   int
}

func NewResolver(client Fetcher, proxies []string, floor int) *Resolver {
	if floor <= 0 {
		floor = DefaultPlausibleFloor
	}
	return &Resolver{
		client:  client,
		proxies: proxies,
		floor:   floor,
	}
}

// Resolve returns the first plausible payload for the target URL, trying the
// direct route and then each configured proxy in order.
func (r *Resolver) Resolve(ctx context.Context, target string) ([]byte, error) {
	body, err := r.client.Get(ctx, target)
	if err == nil && r.plausible(body) {
		return body, nil
	}
	if err != nil {
		slog.Debug("Direct fetch failed, trying proxies", "url", target, "error", err)
	} else {
		slog.Debug("Direct fetch implausibly small, trying proxies", "url", target, "bytes", len(body))
	}

	for _, template := range r.proxies {
		if !strings.HasPrefix(template, "http") {
			continue
		}

		body, err := r.client.Get(ctx, template+url.QueryEscape(target))
		if err != nil {
			slog.Debug("Proxy fetch failed", "proxy", template, "url", target, "error", err)
			continue
		}
		if r.plausible(body) {
			return body, nil
		}
	}

	return nil, fmt.Errorf("no plausible content for %s", target)
}

// ResolveParallel resolves every URL concurrently, returning only after all
// resolutions have finished. Failed URLs are absent from the result.
func (r *Resolver) ResolveParallel(ctx context.Context, urls []string) map[string][]byte {
	results := make(map[string][]byte, len(urls))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			body, err := r.Resolve(ctx, u)
			if err != nil {
				slog.Debug("Resolution failed", "url", u, "error", err)
				return
			}
			mu.Lock()
			results[u] = body
			mu.Unlock()
		}(u)
	}
	wg.Wait()

	return results
}

func (r *Resolver) plausible(body []byte) bool {
	return len(body) >= r.floor
}
