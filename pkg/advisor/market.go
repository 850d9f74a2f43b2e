package advisor

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/SankarSubbayya/Finnie/pkg/marketdata"
	"github.com/SankarSubbayya/Finnie/pkg/store"
)

// knownSymbols is the fixed set recognized in queries. Symbol extraction
// is plain uppercase matching, so tickers must be written as tickers.
var knownSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "META", "NFLX",
	"SPY", "QQQ", "IWM", "VTI", "VEA", "VWO", "BND", "GLD",
}

// Sentiment thresholds on daily change percent
const (
	positiveMovePct   = 2.0
	negativeMovePct   = -2.0
	breadthBullish    = 0.7
	breadthBearish    = 0.3
	newsArticleLimit  = 5
	responseNewsLimit = 3
)

// MarketAgent serves quotes, news, and a market sentiment read
type MarketAgent struct {
	provider marketdata.Provider
	logger   *log.Logger
}

// NewMarketAgent creates the market intelligence responder
func NewMarketAgent(provider marketdata.Provider, logger *log.Logger) *MarketAgent {
	return &MarketAgent{provider: provider, logger: logger}
}

func (a *MarketAgent) Category() string { return CategoryMarket }

// Process answers a market query: per-symbol quotes when the query names
// tickers, the index overview otherwise, plus relevant news and a
// sentiment summary. Provider failures degrade to a partial response.
func (a *MarketAgent) Process(ctx context.Context, state *store.State) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.Printf("[MARKET] Recovered from panic: %v", r)
			}
			result = &Result{Response: ErrResponse, Sources: []store.Source{}}
		}
	}()

	symbols := ExtractSymbols(state.Query)

	var quotes map[string]marketdata.Quote
	var err error
	if len(symbols) > 0 {
		quotes, err = a.provider.Quotes(ctx, symbols)
	} else {
		quotes, err = a.provider.Indices(ctx)
	}
	if err != nil {
		if a.logger != nil {
			a.logger.Printf("[MARKET] Quote lookup failed: %v", err)
		}
		quotes = map[string]marketdata.Quote{}
	}

	news, err := a.provider.Search(ctx, state.Query, newsArticleLimit)
	if err != nil {
		if a.logger != nil {
			a.logger.Printf("[MARKET] News lookup failed: %v", err)
		}
		news = nil
	}

	sentiment, insights := analyzeQuotes(quotes, symbols)
	trends := queryTrends(state.Query)

	if a.logger != nil {
		a.logger.Printf("[MARKET] Answered with %d quotes, %d articles (sentiment: %s)", len(quotes), len(news), sentiment)
	}

	return &Result{
		Response: marketResponse(state.Query, symbols, quotes, news, sentiment, insights),
		Sources: []store.Source{
			{Title: "Real-time Market Data", URL: "https://finance.yahoo.com", Score: 0.95},
			{Title: "Market Analysis", URL: "https://finnie.learn/market-analysis", Score: 0.88},
		},
		Fields: map[string]interface{}{
			"market_data":      quotes,
			"news":             news,
			"market_sentiment": sentiment,
			"key_insights":     insights,
			"trends":           trends,
		},
	}
}

// ExtractSymbols returns the known tickers present in the query, in the
// fixed table order
func ExtractSymbols(query string) []string {
	queryUpper := strings.ToUpper(query)
	var symbols []string
	for _, symbol := range knownSymbols {
		if strings.Contains(queryUpper, symbol) {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

// analyzeQuotes derives a sentiment label and insight lines. A single
// symbol is judged by its own move; a basket is judged by breadth.
func analyzeQuotes(quotes map[string]marketdata.Quote, symbols []string) (string, []string) {
	sentiment := "neutral"
	insights := []string{}

	if len(symbols) == 1 {
		quote, ok := quotes[symbols[0]]
		if !ok {
			return sentiment, insights
		}
		switch {
		case quote.ChangePercent > positiveMovePct:
			sentiment = "positive"
			insights = append(insights, fmt.Sprintf("%s is up %.1f%% today", quote.Symbol, quote.ChangePercent))
		case quote.ChangePercent < negativeMovePct:
			sentiment = "negative"
			insights = append(insights, fmt.Sprintf("%s is down %.1f%% today", quote.Symbol, quote.ChangePercent))
		default:
			insights = append(insights, fmt.Sprintf("%s is relatively stable today", quote.Symbol))
		}
		return sentiment, insights
	}

	if len(quotes) == 0 {
		return sentiment, insights
	}

	positive := 0
	for _, quote := range quotes {
		if quote.ChangePercent > 0 {
			positive++
		}
	}
	ratio := float64(positive) / float64(len(quotes))
	switch {
	case ratio > breadthBullish:
		sentiment = "positive"
		insights = append(insights, "Most major indices are up today")
	case ratio < breadthBearish:
		sentiment = "negative"
		insights = append(insights, "Most major indices are down today")
	default:
		insights = append(insights, "Market is mixed today")
	}
	return sentiment, insights
}

func queryTrends(query string) []string {
	trends := []string{}
	queryLower := strings.ToLower(query)
	if strings.Contains(queryLower, "trend") {
		trends = append(trends, "Current trend appears to be sideways with slight upward bias")
	}
	return trends
}

func marketResponse(query string, symbols []string, quotes map[string]marketdata.Quote, news []marketdata.NewsArticle, sentiment string, insights []string) string {
	var parts []string
	parts = append(parts, "## Market Intelligence Update")

	if len(insights) > 0 {
		parts = append(parts, "\n**Key Insights:**")
		for _, insight := range insights {
			parts = append(parts, "- "+insight)
		}
	}

	if len(symbols) == 1 {
		if quote, ok := quotes[symbols[0]]; ok {
			parts = append(parts, fmt.Sprintf("\n**%s Quote:**", quote.Symbol))
			parts = append(parts, fmt.Sprintf("- Price: $%.2f", quote.Price))
			parts = append(parts, "- Change: "+marketdata.FormatChange(quote.Change, quote.ChangePercent))
			parts = append(parts, fmt.Sprintf("- Volume: %d", quote.Volume))
		}
	} else if len(quotes) > 0 {
		parts = append(parts, "\n**Market Overview:**")
		ordered := make([]string, 0, len(quotes))
		for symbol := range quotes {
			ordered = append(ordered, symbol)
		}
		sort.Strings(ordered)
		for _, symbol := range ordered {
			quote := quotes[symbol]
			name := quote.Name
			if name == "" {
				name = quote.Symbol
			}
			parts = append(parts, fmt.Sprintf("- %s: %.2f (%+.2f%%)", name, quote.Price, quote.ChangePercent))
		}
	}

	if len(news) > 0 {
		parts = append(parts, "\n**Relevant News:**")
		for i, article := range news {
			if i == responseNewsLimit {
				break
			}
			parts = append(parts, fmt.Sprintf("- [%s] %s (%s)", article.Sentiment, article.Title, article.Source))
		}
	}

	parts = append(parts, fmt.Sprintf("\n**Market Sentiment:** %s", titleCase(sentiment)))
	parts = append(parts, fmt.Sprintf("\nYou asked: %q", query))

	return strings.Join(parts, "\n")
}
