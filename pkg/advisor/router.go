package advisor

import (
	"log"
	"strings"
)

// defaultConfidence is reported when no keyword matched and the query fell
// through to the default category. Deliberately 0.5 rather than 0.0 so the
// fallback is not treated as "unconfident" by downstream consumers.
const defaultConfidence = 0.5

// Decision is the outcome of routing a single query
type Decision struct {
	Category   string
	Intent     string
	Confidence float64
}

// Router scores a query against per-category keyword sets and selects the
// best-matching agent. Ties are broken by an explicit priority order, not
// by map iteration order.
type Router struct {
	keywords map[string][]string
	priority []string
	logger   *log.Logger
}

// NewRouter creates a router with the fixed keyword tables
func NewRouter(logger *log.Logger) *Router {
	return &Router{
		keywords: map[string][]string{
			CategoryTutor: {
				"explain", "what is", "how does", "learn", "teach", "concept",
				"definition", "meaning", "tutorial", "guide", "help me understand",
			},
			CategoryPortfolio: {
				"portfolio", "analyze", "holdings", "performance", "allocation",
				"rebalance", "risk", "diversification", "sharpe", "volatility",
				"drawdown", "returns", "metrics",
			},
			CategoryMarket: {
				"market", "price", "quote", "news", "update", "trend", "forecast",
				"sector", "index", "stocks", "trading",
			},
		},
		priority: []string{CategoryTutor, CategoryPortfolio, CategoryMarket},
		logger:   logger,
	}
}

// Route selects the category whose keyword set has the strictly highest
// match count against the lower-cased query. The first category in priority
// order wins ties. A query matching nothing routes to the tutor with the
// fixed default confidence. Route never fails.
func (r *Router) Route(query string) Decision {
	queryLower := strings.ToLower(query)

	bestCategory := ""
	bestScore := 0
	for _, category := range r.priority {
		score := 0
		for _, keyword := range r.keywords[category] {
			if strings.Contains(queryLower, keyword) {
				score++
			}
		}
		if score > bestScore {
			bestCategory = category
			bestScore = score
		}
	}

	if bestScore == 0 {
		r.logger.Printf("[ROUTER] No keyword match, defaulting to %s", CategoryTutor)
		return Decision{
			Category:   CategoryTutor,
			Intent:     IntentGeneral,
			Confidence: defaultConfidence,
		}
	}

	confidence := float64(bestScore) / float64(wordCount(queryLower))
	r.logger.Printf("[ROUTER] Routed query to %s (confidence: %.2f)", bestCategory, confidence)

	return Decision{
		Category:   bestCategory,
		Intent:     bestCategory,
		Confidence: confidence,
	}
}

func wordCount(s string) int {
	n := len(strings.Fields(s))
	if n == 0 {
		return 1
	}
	return n
}
