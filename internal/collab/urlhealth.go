// Package collab implements the external collaborators the core treats as
// interfaces per spec §6: URL health checking, sitemap/company-data
// harvesting, image generation, and persistence.
package collab

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// URLHealthResult is the {ok, final_url, status_code} record spec §6
// requires from the URL-health collaborator.
type URLHealthResult struct {
	OK         bool
	FinalURL   string
	StatusCode int
}

// URLHealthChecker is the URL-health collaborator interface.
type URLHealthChecker interface {
	Check(ctx context.Context, url string, timeout time.Duration) (URLHealthResult, error)
}

// cacheTTL is the read-mostly cache lifetime spec §5 prescribes (5 minutes).
const cacheTTL = 5 * time.Minute

type cacheEntry struct {
	result  URLHealthResult
	expires time.Time
}

// UrlHealthCache wraps an HTTP-based checker with an explicit, injectable
// cache — the redesign note in spec §9 asks for "an explicit UrlHealthCache
// value injected into the Citations stage, with a clock parameter for
// deterministic tests" rather than a global singleton.
type UrlHealthCache struct {
	http  *http.Client
	clock func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

var _ URLHealthChecker = (*UrlHealthCache)(nil)

// NewUrlHealthCache creates a checker backed by a plain http.Client. Pass a
// fixed clock in tests to make TTL expiry deterministic.
func NewUrlHealthCache(clock func() time.Time) *UrlHealthCache {
	if clock == nil {
		clock = time.Now
	}
	return &UrlHealthCache{
		http:    &http.Client{},
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// Check follows redirects and reports ok=true iff the final response is
// 2xx/3xx and the body was reachable. Cached entries are last-writer-wins
// under concurrent inserts, tolerable per spec §5's shared-resource policy.
func (c *UrlHealthCache) Check(ctx context.Context, url string, timeout time.Duration) (URLHealthResult, error) {
	now := c.clock()

	c.mu.Lock()
	if entry, ok := c.entries[url]; ok && now.Before(entry.expires) {
		c.mu.Unlock()
		return entry.result, nil
	}
	c.mu.Unlock()

	reqCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return URLHealthResult{}, err
	}
	req.Header.Set("User-Agent", "ArticleEngine/1.0 (citation checker)")

	resp, err := c.http.Do(req)
	result := URLHealthResult{}
	if err != nil {
		result.OK = false
	} else {
		defer resp.Body.Close()
		result.FinalURL = resp.Request.URL.String()
		result.StatusCode = resp.StatusCode
		result.OK = resp.StatusCode < 400
	}

	c.mu.Lock()
	c.entries[url] = cacheEntry{result: result, expires: now.Add(cacheTTL)}
	c.mu.Unlock()

	return result, nil
}
