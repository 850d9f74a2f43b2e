package marketdata

import (
	"context"
	"testing"
	"time"
)

// countingProvider wraps the mock and counts upstream hits
type countingProvider struct {
	*MockProvider
	quoteCalls int
	newsCalls  int
}

func (c *countingProvider) Quotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	c.quoteCalls++
	return c.MockProvider.Quotes(ctx, symbols)
}

func (c *countingProvider) Search(ctx context.Context, query string, limit int) ([]NewsArticle, error) {
	c.newsCalls++
	return c.MockProvider.Search(ctx, query, limit)
}

func TestCachedQuotesHitUpstreamOnce(t *testing.T) {
	upstream := &countingProvider{MockProvider: NewMockProvider()}
	cached := NewCachedProvider(upstream, time.Minute, time.Minute, nil)
	ctx := context.Background()

	first, err := cached.Quotes(ctx, []string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatalf("Quotes: %v", err)
	}
	second, err := cached.Quotes(ctx, []string{"MSFT", "AAPL"})
	if err != nil {
		t.Fatalf("Quotes: %v", err)
	}

	if upstream.quoteCalls != 1 {
		t.Errorf("upstream calls = %d, want 1 (symbol order must not bust the cache)", upstream.quoteCalls)
	}
	if first["AAPL"].Price != second["AAPL"].Price {
		t.Error("cached quote differs from original")
	}
}

func TestCachedQuotesExpire(t *testing.T) {
	upstream := &countingProvider{MockProvider: NewMockProvider()}
	cached := NewCachedProvider(upstream, 10*time.Millisecond, time.Minute, nil)
	ctx := context.Background()

	if _, err := cached.Quotes(ctx, []string{"TSLA"}); err != nil {
		t.Fatalf("Quotes: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := cached.Quotes(ctx, []string{"TSLA"}); err != nil {
		t.Fatalf("Quotes: %v", err)
	}

	if upstream.quoteCalls != 2 {
		t.Errorf("upstream calls = %d, want 2 after TTL expiry", upstream.quoteCalls)
	}
}

func TestCachedNewsSeparateTTL(t *testing.T) {
	upstream := &countingProvider{MockProvider: NewMockProvider()}
	cached := NewCachedProvider(upstream, time.Minute, time.Minute, nil)
	ctx := context.Background()

	if _, err := cached.Search(ctx, "tech earnings", 5); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := cached.Search(ctx, "tech earnings", 5); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := cached.Search(ctx, "energy", 5); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if upstream.newsCalls != 2 {
		t.Errorf("upstream calls = %d, want 2 (one per distinct query)", upstream.newsCalls)
	}
}

func TestMockQuotesDeterministic(t *testing.T) {
	p := NewMockProvider()
	ctx := context.Background()

	first, err := p.Quotes(ctx, []string{"AAPL"})
	if err != nil {
		t.Fatalf("Quotes: %v", err)
	}
	second, err := p.Quotes(ctx, []string{"AAPL"})
	if err != nil {
		t.Fatalf("Quotes: %v", err)
	}

	if first["AAPL"].Price != second["AAPL"].Price {
		t.Errorf("mock quote not deterministic: %v vs %v", first["AAPL"].Price, second["AAPL"].Price)
	}
	q := first["AAPL"]
	if q.Price < 50 || q.Price >= 500 {
		t.Errorf("Price = %v, want within [50, 500)", q.Price)
	}
	if q.Change < -5 || q.Change >= 5 {
		t.Errorf("Change = %v, want within [-5, 5)", q.Change)
	}
}

func TestMockSearchFiltersByRelevance(t *testing.T) {
	p := NewMockProvider()

	articles, err := p.Search(context.Background(), "tech stocks", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(articles) == 0 {
		t.Fatal("want at least one article")
	}
	for _, a := range articles {
		if a.Relevance <= 0.8 {
			t.Errorf("article %q relevance %v, want > 0.8", a.Title, a.Relevance)
		}
	}
	// The tech article gets the query-match boost and must rank first.
	if articles[0].Title != "Tech Stocks Rally on Strong Earnings" {
		t.Errorf("top article = %q, want the boosted tech article", articles[0].Title)
	}
}

func TestMockIndices(t *testing.T) {
	p := NewMockProvider()

	indices, err := p.Indices(context.Background())
	if err != nil {
		t.Fatalf("Indices: %v", err)
	}
	for _, symbol := range []string{"SPY", "QQQ", "IWM", "DIA"} {
		if _, ok := indices[symbol]; !ok {
			t.Errorf("missing index %s", symbol)
		}
	}
}
