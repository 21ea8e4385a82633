package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client issues outbound GET requests with a browser-like header set.
// Certificate verification is disabled on purpose: several upstream sites
// serve intermittently broken chains and reliability wins over verification
// for public feed content.
type Client struct {
	rc *resty.Client
}

func NewClient(userAgent string, timeout time.Duration) *Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}). //nolint:gosec
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Client{rc: rc}
}

// Get fetches a URL and returns its body. Non-2xx responses and transport
// errors both come back as errors; callers treat absence of content as a
// normal outcome.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req := c.rc.R().SetContext(ctx)

	// A Referer from the target's own origin reduces bot-blocking.
	if o := requestOrigin(rawURL); o != "" {
		req.SetHeader("Referer", o+"/")
	}

	resp, err := req.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode())
	}

	return resp.Body(), nil
}

// GetParallel fetches every URL concurrently and returns once all requests
// have completed or failed. Failed URLs are simply absent from the result,
// and each payload maps back to the URL that produced it.
func (c *Client) GetParallel(ctx context.Context, urls []string) map[string][]byte {
	results := make(map[string][]byte, len(urls))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			body, err := c.Get(ctx, u)
			if err != nil {
				slog.Debug("Parallel fetch failed", "url", u, "error", err)
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

func requestOrigin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
