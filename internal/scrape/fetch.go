package scrape

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/kpraghav/scripdesk/internal/config"
	"github.com/kpraghav/scripdesk/internal/infra"
)

// Fetcher downloads company pages with rate limiting, caching and
// retry. Retry state is built fresh for every request.
type Fetcher struct {
	baseURL   string
	userAgent string
	attempts  int
	baseDelay time.Duration
	cacheTTL  time.Duration

	cache   *infra.Cache
	limiter *infra.RateLimiter
	log     *zap.Logger
}

// NewFetcher creates a Fetcher from scraper configuration.
func NewFetcher(cfg config.ScraperConfig, log *zap.Logger) *Fetcher {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = time.Second
	}
	ttl := time.Duration(cfg.CacheTTLSec) * time.Second
	return &Fetcher{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		attempts:  attempts,
		baseDelay: delay,
		cacheTTL:  ttl,
		cache:     infra.NewCache(ttl),
		limiter:   infra.NewRateLimiter(cfg.RateLimitPerSec, time.Second),
		log:       log,
	}
}

// FetchPage downloads the company page markup for a validated symbol.
func (f *Fetcher) FetchPage(ctx context.Context, symbol string) (string, error) {
	cacheKey := "page:" + symbol
	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached.(string), nil
	}

	url := fmt.Sprintf("%s/company/%s/", f.baseURL, symbol)
	markup, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}

	f.cache.SetWithTTL(cacheKey, markup, f.cacheTTL)
	return markup, nil
}

// Forget evicts a symbol's cached page so the next fetch goes to the
// network. Used when a cached page turned out to be unparseable.
func (f *Fetcher) Forget(symbol string) {
	f.cache.Invalidate("page:" + symbol)
}

// get performs one rate-limited GET with the retry policy applied.
func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	headers := map[string]string{
		"Accept": "text/html",
	}
	if f.userAgent != "" {
		headers["User-Agent"] = f.userAgent
	}

	var markup string
	op := func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		body, _, err := infra.DoGet(ctx, url, headers)
		if err != nil {
			return err
		}
		defer body.Close()

		data, err := io.ReadAll(body)
		if err != nil {
			return err
		}
		markup = string(data)
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.baseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = 1 * time.Minute

	notify := func(err error, wait time.Duration) {
		f.log.Warn("fetch failed, retrying",
			zap.String("url", url),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	err := backoff.RetryNotify(op,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(f.attempts-1)), ctx),
		notify)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return markup, nil
}
