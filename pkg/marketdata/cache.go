package marketdata

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Default TTLs for the caching layer. Quotes go stale fast; news and
// reference data can live longer.
const (
	DefaultQuoteTTL = 60 * time.Second
	DefaultNewsTTL  = 5 * time.Minute
)

// Provider is the full market data surface
type Provider interface {
	QuoteProvider
	NewsProvider
	ReferenceProvider
}

// CachedProvider wraps a Provider with per-concern TTL caches so repeated
// lookups within the TTL window return the same snapshot without hitting
// the upstream.
type CachedProvider struct {
	upstream Provider
	quotes   *gocache.Cache
	news     *gocache.Cache
	logger   *log.Logger
}

// NewCachedProvider creates the caching decorator. Non-positive TTLs fall
// back to the defaults.
func NewCachedProvider(upstream Provider, quoteTTL, newsTTL time.Duration, logger *log.Logger) *CachedProvider {
	if quoteTTL <= 0 {
		quoteTTL = DefaultQuoteTTL
	}
	if newsTTL <= 0 {
		newsTTL = DefaultNewsTTL
	}
	return &CachedProvider{
		upstream: upstream,
		quotes:   gocache.New(quoteTTL, 10*time.Minute),
		news:     gocache.New(newsTTL, 10*time.Minute),
		logger:   logger,
	}
}

func (c *CachedProvider) Quotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	key := quoteKey(symbols)
	if cached, found := c.quotes.Get(key); found {
		return cached.(map[string]Quote), nil
	}

	quotes, err := c.upstream.Quotes(ctx, symbols)
	if err != nil {
		return nil, err
	}
	c.quotes.Set(key, quotes, gocache.DefaultExpiration)
	if c.logger != nil {
		c.logger.Printf("[MARKET] Cached quotes for %s", key)
	}
	return quotes, nil
}

func (c *CachedProvider) Indices(ctx context.Context) (map[string]Quote, error) {
	if cached, found := c.quotes.Get("indices"); found {
		return cached.(map[string]Quote), nil
	}

	indices, err := c.upstream.Indices(ctx)
	if err != nil {
		return nil, err
	}
	c.quotes.Set("indices", indices, gocache.DefaultExpiration)
	return indices, nil
}

func (c *CachedProvider) Search(ctx context.Context, query string, limit int) ([]NewsArticle, error) {
	key := fmt.Sprintf("news:%s:%d", strings.ToLower(query), limit)
	if cached, found := c.news.Get(key); found {
		return cached.([]NewsArticle), nil
	}

	articles, err := c.upstream.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	c.news.Set(key, articles, gocache.DefaultExpiration)
	return articles, nil
}

func (c *CachedProvider) SectorPerformance(ctx context.Context) (map[string]SectorStat, error) {
	if cached, found := c.quotes.Get("sectors"); found {
		return cached.(map[string]SectorStat), nil
	}

	sectors, err := c.upstream.SectorPerformance(ctx)
	if err != nil {
		return nil, err
	}
	c.quotes.Set("sectors", sectors, gocache.DefaultExpiration)
	return sectors, nil
}

func (c *CachedProvider) Calendar(ctx context.Context) ([]CalendarEvent, error) {
	if cached, found := c.news.Get("calendar"); found {
		return cached.([]CalendarEvent), nil
	}

	events, err := c.upstream.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	c.news.Set("calendar", events, gocache.DefaultExpiration)
	return events, nil
}

// quoteKey builds an order-insensitive cache key for a symbol set
func quoteKey(symbols []string) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	return "quotes:" + strings.Join(sorted, ",")
}
