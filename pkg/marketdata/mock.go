package marketdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// MockProvider is a deterministic in-process data source. Each symbol's
// quote is derived from a hash of the symbol, so repeated lookups return
// identical numbers and tests can assert on them.
type MockProvider struct{}

// NewMockProvider creates the deterministic mock data source
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

var indexQuotes = map[string]Quote{
	"SPY": {Symbol: "SPY", Name: "S&P 500", Price: 4750.23, Change: 0.52, ChangePercent: 0.01},
	"QQQ": {Symbol: "QQQ", Name: "NASDAQ", Price: 14850.67, Change: 0.78, ChangePercent: 0.01},
	"IWM": {Symbol: "IWM", Name: "Russell 2000", Price: 1950.45, Change: -0.12, ChangePercent: -0.01},
	"DIA": {Symbol: "DIA", Name: "Dow Jones", Price: 37500.12, Change: 0.34, ChangePercent: 0.01},
}

var mockArticles = []NewsArticle{
	{
		Title:     "Tech Stocks Rally on Strong Earnings",
		Source:    "Financial Times",
		URL:       "https://ft.com/tech-rally",
		Sentiment: "positive",
		Relevance: 0.95,
	},
	{
		Title:     "Federal Reserve Hints at Rate Cuts",
		Source:    "Reuters",
		URL:       "https://reuters.com/fed-rates",
		Sentiment: "neutral",
		Relevance: 0.88,
	},
	{
		Title:     "Energy Sector Faces Headwinds",
		Source:    "Bloomberg",
		URL:       "https://bloomberg.com/energy",
		Sentiment: "negative",
		Relevance: 0.82,
	},
}

var mockSectors = map[string]SectorStat{
	"Technology": {Return: 2.5, Volume: 1000000},
	"Healthcare": {Return: 1.8, Volume: 800000},
	"Finance":    {Return: 0.9, Volume: 1200000},
	"Consumer":   {Return: 1.2, Volume: 900000},
	"Energy":     {Return: -0.5, Volume: 600000},
	"Industrial": {Return: 0.7, Volume: 700000},
	"Materials":  {Return: 0.3, Volume: 500000},
	"Utilities":  {Return: 0.1, Volume: 400000},
}

// Quotes generates a deterministic quote per symbol
func (p *MockProvider) Quotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	quotes := make(map[string]Quote, len(symbols))
	for _, symbol := range symbols {
		quotes[symbol] = mockQuote(symbol)
	}
	return quotes, nil
}

// Indices returns the fixed index overview
func (p *MockProvider) Indices(ctx context.Context) (map[string]Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	indices := make(map[string]Quote, len(indexQuotes))
	for symbol, quote := range indexQuotes {
		quote.Timestamp = time.Now()
		indices[symbol] = quote
	}
	return indices, nil
}

// Search filters the fixed article set: base relevance plus 0.1 when a
// query word appears in the title, keeping articles scoring above 0.8.
func (p *MockProvider) Search(ctx context.Context, query string, limit int) ([]NewsArticle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := strings.Fields(strings.ToLower(query))

	var results []NewsArticle
	for _, article := range mockArticles {
		relevance := article.Relevance
		titleLower := strings.ToLower(article.Title)
		for _, word := range words {
			if strings.Contains(titleLower, word) {
				relevance += 0.1
				break
			}
		}
		if relevance > 0.8 {
			article.Relevance = relevance
			article.Published = time.Now().Add(-2 * time.Hour)
			results = append(results, article)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SectorPerformance returns the fixed sector table
func (p *MockProvider) SectorPerformance(ctx context.Context) (map[string]SectorStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sectors := make(map[string]SectorStat, len(mockSectors))
	for name, stat := range mockSectors {
		sectors[name] = stat
	}
	return sectors, nil
}

// Calendar returns upcoming high-impact events relative to today
func (p *MockProvider) Calendar(ctx context.Context) ([]CalendarEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now()
	return []CalendarEvent{
		{
			Date:        now.Format("2006-01-02"),
			Time:        "10:00 AM",
			Event:       "Consumer Price Index",
			Impact:      "High",
			Forecast:    "3.2%",
			Description: "Monthly inflation data release",
		},
		{
			Date:        now.AddDate(0, 0, 1).Format("2006-01-02"),
			Time:        "2:00 PM",
			Event:       "Federal Reserve Meeting",
			Impact:      "High",
			Forecast:    "Rate Decision",
			Description: "FOMC interest rate decision",
		},
		{
			Date:        now.AddDate(0, 0, 3).Format("2006-01-02"),
			Time:        "8:30 AM",
			Event:       "Non-Farm Payrolls",
			Impact:      "High",
			Forecast:    "200K",
			Description: "Monthly employment data",
		},
	}, nil
}

// mockQuote derives a stable quote from the symbol hash. Price lands in
// [50, 500), daily change in [-5, 5).
func mockQuote(symbol string) Quote {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	price := round2(50 + rng.Float64()*450)
	change := round2(-5 + rng.Float64()*10)
	changePct := 0.0
	if price != 0 {
		changePct = round2(change / price * 100)
	}

	return Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Volume:        1000000 + rng.Int63n(9000000),
		High:          round2(price + rng.Float64()*5),
		Low:           round2(price - rng.Float64()*5),
		Open:          round2(price - change),
		Timestamp:     time.Now(),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// FormatChange renders a signed change pair for display ("+1.20 (+0.85%)")
func FormatChange(change, changePct float64) string {
	return fmt.Sprintf("%+.2f (%+.2f%%)", change, changePct)
}
