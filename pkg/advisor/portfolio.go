package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/SankarSubbayya/Finnie/pkg/metrics"
	"github.com/SankarSubbayya/Finnie/pkg/store"
)

// Recommendation is one actionable suggestion from portfolio analysis
type Recommendation struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// PortfolioAgent analyzes caller-supplied holdings: computes the metrics
// report, derives strengths and concerns, and produces recommendations
type PortfolioAgent struct {
	calculator *metrics.Calculator
	logger     *log.Logger
}

// NewPortfolioAgent creates the portfolio responder
func NewPortfolioAgent(calculator *metrics.Calculator, logger *log.Logger) *PortfolioAgent {
	return &PortfolioAgent{calculator: calculator, logger: logger}
}

func (a *PortfolioAgent) Category() string { return CategoryPortfolio }

// Process analyzes the holdings found in the request context. A request
// without holdings gets a guidance message instead of an error.
func (a *PortfolioAgent) Process(_ context.Context, state *store.State) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.Printf("[PORTFOLIO] Recovered from panic: %v", r)
			}
			result = &Result{Response: ErrResponse, Sources: []store.Source{}}
		}
	}()

	holdings := parseHoldings(state.PortfolioData())
	if len(holdings) == 0 {
		return &Result{
			Response: fmt.Sprintf("I'd be happy to analyze your portfolio! However, I don't see any holdings data for your request %q. Please upload your portfolio data or add holdings to your profile first.", state.Query),
			Sources:  []store.Source{},
			Fields: map[string]interface{}{
				"metrics":         map[string]interface{}{},
				"recommendations": []Recommendation{},
			},
		}
	}

	report := a.calculator.Calculate(holdings)
	strengths, concerns := analyzeReport(report)
	recommendations := buildRecommendations(report)

	if a.logger != nil {
		a.logger.Printf("[PORTFOLIO] Analyzed %d holdings (total value %.2f)", report.NumHoldings, report.TotalValue)
	}

	return &Result{
		Response: portfolioResponse(report, strengths, concerns, recommendations),
		Sources: []store.Source{
			{Title: "Portfolio Analysis Methodology", URL: "https://finnie.learn/portfolio-analysis", Score: 0.95},
			{Title: "Risk Metrics Guide", URL: "https://finnie.learn/risk-metrics", Score: 0.88},
		},
		Fields: map[string]interface{}{
			"metrics":         report,
			"strengths":       strengths,
			"concerns":        concerns,
			"recommendations": recommendations,
		},
	}
}

// parseHoldings decodes the JSON-shaped holdings list from the request
// context. Entries that are not objects are skipped.
func parseHoldings(portfolioData map[string]interface{}) []metrics.Holding {
	raw, ok := portfolioData["holdings"].([]interface{})
	if !ok {
		return nil
	}

	var holdings []metrics.Holding
	for _, entry := range raw {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		h := metrics.Holding{
			Symbol:       stringField(fields, "symbol"),
			Quantity:     numberField(fields, "quantity"),
			CostBasis:    numberField(fields, "cost_basis"),
			CurrentPrice: numberField(fields, "current_price"),
			MarketValue:  numberField(fields, "market_value"),
			Sector:       stringField(fields, "sector"),
		}
		if h.Symbol == "" {
			continue
		}
		holdings = append(holdings, h)
	}
	return holdings
}

func stringField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

func numberField(fields map[string]interface{}, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func analyzeReport(report *metrics.Report) (strengths, concerns []string) {
	strengths = []string{}
	concerns = []string{}

	if report.TopWeight > metrics.HighConcentrationWeight {
		concerns = append(concerns, fmt.Sprintf("High concentration in %s (%.1f%%)", report.TopSymbol, report.TopWeight*100))
	} else {
		strengths = append(strengths, "Good diversification across holdings")
	}

	switch {
	case report.NumHoldings < metrics.MinDiversifiedHoldings:
		concerns = append(concerns, "Portfolio has fewer than 5 holdings - consider diversification")
	case report.NumHoldings > metrics.MaxFocusedHoldings:
		concerns = append(concerns, "Portfolio may be over-diversified - consider consolidation")
	default:
		strengths = append(strengths, "Appropriate number of holdings for diversification")
	}

	if report.SharpeRatio > metrics.StrongSharpeThreshold {
		strengths = append(strengths, "Strong risk-adjusted returns (Sharpe ratio > 1.0)")
	} else if report.SharpeRatio < metrics.LowSharpeThreshold {
		concerns = append(concerns, "Low risk-adjusted returns - consider rebalancing")
	}

	if report.Volatility > metrics.HighVolatility {
		concerns = append(concerns, "High volatility - consider adding defensive positions")
	} else if report.Volatility < metrics.LowVolatility {
		concerns = append(concerns, "Very low volatility - may be missing growth opportunities")
	}

	return strengths, concerns
}

func buildRecommendations(report *metrics.Report) []Recommendation {
	recommendations := []Recommendation{}

	if report.NumHoldings < metrics.MinDiversifiedHoldings {
		recommendations = append(recommendations, Recommendation{
			Type:        "diversification",
			Priority:    "high",
			Title:       "Improve Diversification",
			Description: "Consider adding more holdings to improve diversification",
			Action:      "Add 3-5 additional holdings across different sectors",
		})
	}

	if -report.MaxDrawdown > metrics.DeepDrawdown {
		recommendations = append(recommendations, Recommendation{
			Type:        "risk_management",
			Priority:    "high",
			Title:       "Reduce Drawdown Risk",
			Description: "Portfolio has experienced significant drawdowns",
			Action:      "Consider adding defensive assets or reducing position sizes",
		})
	}

	if report.SharpeRatio < metrics.LowSharpeThreshold {
		recommendations = append(recommendations, Recommendation{
			Type:        "performance",
			Priority:    "medium",
			Title:       "Improve Risk-Adjusted Returns",
			Description: "Portfolio's risk-adjusted returns could be improved",
			Action:      "Review asset allocation and consider rebalancing",
		})
	}

	if report.NumHoldings > 1 {
		recommendations = append(recommendations, Recommendation{
			Type:        "rebalancing",
			Priority:    "medium",
			Title:       "Regular Rebalancing",
			Description: "Consider rebalancing quarterly to maintain target allocation",
			Action:      "Set up quarterly rebalancing schedule",
		})
	}

	return recommendations
}

func portfolioResponse(report *metrics.Report, strengths, concerns []string, recommendations []Recommendation) string {
	var parts []string
	parts = append(parts, "## Portfolio Analysis Summary")
	parts = append(parts, fmt.Sprintf("Your portfolio has %d holdings with a total value of $%.2f.", report.NumHoldings, report.TotalValue))

	parts = append(parts, "\n**Key Metrics:**")
	parts = append(parts, fmt.Sprintf("- Sharpe Ratio: %.2f", report.SharpeRatio))
	parts = append(parts, fmt.Sprintf("- Volatility: %.1f%%", report.Volatility*100))
	parts = append(parts, fmt.Sprintf("- Max Drawdown: %.1f%%", report.MaxDrawdown*100))

	if len(strengths) > 0 {
		parts = append(parts, "\n**Strengths:**")
		for _, s := range strengths {
			parts = append(parts, "- "+s)
		}
	}
	if len(concerns) > 0 {
		parts = append(parts, "\n**Areas for Improvement:**")
		for _, c := range concerns {
			parts = append(parts, "- "+c)
		}
	}
	if len(recommendations) > 0 {
		parts = append(parts, "\n**Top Recommendations:**")
		for i, rec := range recommendations {
			if i == 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%d. [%s] **%s**: %s", i+1, rec.Priority, rec.Title, rec.Description))
		}
	}

	return strings.Join(parts, "\n")
}
