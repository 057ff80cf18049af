package cover

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tanko/internal/covercache"
	"tanko/internal/logging"
)

// maxImageBytes bounds a single cover download.
const maxImageBytes = 32 << 20

// Fetcher queries remote providers for a cover image. Lookups run
// concurrently, but the result is always the first provider in the
// configured order that produced a URL.
type Fetcher struct {
	providers  []Provider
	cache      *covercache.Cache
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher assembles a fetcher over the given providers in priority order.
// cache may be nil to disable URL caching.
func NewFetcher(providers []Provider, cache *covercache.Cache, userAgent string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{
		providers:  providers,
		cache:      cache,
		userAgent:  strings.TrimSpace(userAgent),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "cover"),
	}
}

type lookupResult struct {
	url    string
	err    error
	cached bool
}

// Fetch resolves a remote cover for title. It returns the absent source when
// every provider misses or fails; provider failures are logged, not fatal.
func (f *Fetcher) Fetch(ctx context.Context, title string) Source {
	title = strings.TrimSpace(title)
	if title == "" || len(f.providers) == 0 {
		return None()
	}

	results := make([]lookupResult, len(f.providers))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, provider := range f.providers {
		if f.cache != nil {
			if entry, ok := f.cache.Lookup(provider.Name(), title); ok {
				results[i] = lookupResult{url: entry.URL, cached: true}
				continue
			}
		}
		i, provider := i, provider
		group.Go(func() error {
			lookupCtx, cancel := context.WithTimeout(groupCtx, f.timeout)
			defer cancel()
			url, err := provider.LookupCoverURL(lookupCtx, title)
			results[i] = lookupResult{url: url, err: err}
			return nil
		})
	}
	// Lookup errors stay per-provider; Wait only propagates ctx failure.
	_ = group.Wait()

	// Selection is strictly by provider order regardless of which lookup
	// finished first.
	for i, provider := range f.providers {
		result := results[i]
		if result.err != nil {
			f.logger.Warn("cover lookup failed",
				logging.String("provider", provider.Name()),
				logging.String("title", title),
				logging.Error(result.err))
			continue
		}
		if f.cache != nil && !result.cached {
			if err := f.cache.Store(provider.Name(), title, result.url); err != nil {
				f.logger.Warn("cover cache write failed", logging.Error(err))
			}
		}
		if result.url == "" {
			continue
		}
		data, err := f.download(ctx, provider.Name(), result.url)
		if err != nil {
			f.logger.Warn("cover download failed",
				logging.String("provider", provider.Name()),
				logging.String("url", result.url),
				logging.Error(err))
			continue
		}
		return Source{
			Kind:     KindRemote,
			Origin:   result.url,
			Provider: provider.Name(),
			Data:     data,
		}
	}
	return None()
}

func (f *Fetcher) download(ctx context.Context, providerName, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	// MangaDex hotlink protection requires a site referer.
	if providerName == "mangadex" {
		req.Header.Set("Referer", "https://mangadex.org/")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image host returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image host returned an empty body")
	}
	return data, nil
}
