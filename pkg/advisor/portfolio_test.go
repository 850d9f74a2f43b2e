package advisor

import (
	"context"
	"strings"
	"testing"

	"github.com/SankarSubbayya/Finnie/pkg/metrics"
	"github.com/SankarSubbayya/Finnie/pkg/store"
)

func newTestPortfolioAgent() *PortfolioAgent {
	calc := metrics.NewCalculator(metrics.DefaultRiskFreeRate, nil)
	return NewPortfolioAgent(calc, testLogger())
}

func holdingsContext(holdings ...map[string]interface{}) map[string]interface{} {
	raw := make([]interface{}, len(holdings))
	for i, h := range holdings {
		raw[i] = h
	}
	return map[string]interface{}{
		"portfolio_data": map[string]interface{}{"holdings": raw},
	}
}

func TestPortfolioNoHoldingsGuidance(t *testing.T) {
	agent := newTestPortfolioAgent()
	state := store.NewState("u1", "analyze my portfolio", nil)

	result := agent.Process(context.Background(), state)

	if !strings.Contains(result.Response, "don't see any holdings") {
		t.Errorf("response = %q, want holdings guidance", result.Response)
	}
	if !strings.Contains(result.Response, "analyze my portfolio") {
		t.Errorf("response should echo the query: %q", result.Response)
	}
	if len(result.Sources) != 0 {
		t.Errorf("sources = %v, want none without holdings", result.Sources)
	}
}

func TestPortfolioSingleHoldingAnalysis(t *testing.T) {
	agent := newTestPortfolioAgent()
	state := store.NewState("u1", "analyze my portfolio", holdingsContext(
		map[string]interface{}{"symbol": "AAPL", "quantity": 100.0, "cost_basis": 150.0},
	))

	result := agent.Process(context.Background(), state)

	report, ok := result.Fields["metrics"].(*metrics.Report)
	if !ok {
		t.Fatalf("metrics field = %T, want *metrics.Report", result.Fields["metrics"])
	}
	if report.TotalValue != 15000 {
		t.Errorf("TotalValue = %v, want 15000", report.TotalValue)
	}
	if report.HHI != 1.0 {
		t.Errorf("HHI = %v, want 1.0", report.HHI)
	}

	concerns, _ := result.Fields["concerns"].([]string)
	wantConcern := "Portfolio has fewer than 5 holdings - consider diversification"
	found := false
	for _, c := range concerns {
		if c == wantConcern {
			found = true
		}
	}
	if !found {
		t.Errorf("concerns = %v, want %q", concerns, wantConcern)
	}

	recs, _ := result.Fields["recommendations"].([]Recommendation)
	hasDiversification := false
	for _, rec := range recs {
		if rec.Type == "diversification" {
			hasDiversification = true
		}
	}
	if !hasDiversification {
		t.Errorf("recommendations = %v, want a diversification entry", recs)
	}

	if !strings.Contains(result.Response, "## Portfolio Analysis Summary") {
		t.Errorf("response missing summary header: %q", result.Response)
	}
	if !strings.Contains(result.Response, "1 holdings") {
		t.Errorf("response missing holding count: %q", result.Response)
	}
	if len(result.Sources) != 2 {
		t.Errorf("sources = %d, want 2", len(result.Sources))
	}
}

func TestPortfolioConcentrationConcern(t *testing.T) {
	agent := newTestPortfolioAgent()
	state := store.NewState("u1", "check my allocation", holdingsContext(
		map[string]interface{}{"symbol": "TSLA", "quantity": 100.0, "cost_basis": 200.0},
		map[string]interface{}{"symbol": "BND", "quantity": 10.0, "cost_basis": 80.0},
	))

	result := agent.Process(context.Background(), state)

	concerns, _ := result.Fields["concerns"].([]string)
	found := false
	for _, c := range concerns {
		if strings.Contains(c, "High concentration in TSLA") {
			found = true
		}
	}
	if !found {
		t.Errorf("concerns = %v, want a TSLA concentration concern", concerns)
	}
}

func TestPortfolioDiversifiedStrengths(t *testing.T) {
	agent := newTestPortfolioAgent()
	state := store.NewState("u1", "analyze holdings", holdingsContext(
		map[string]interface{}{"symbol": "AAPL", "quantity": 10.0, "cost_basis": 100.0},
		map[string]interface{}{"symbol": "MSFT", "quantity": 10.0, "cost_basis": 100.0},
		map[string]interface{}{"symbol": "GOOGL", "quantity": 10.0, "cost_basis": 100.0},
		map[string]interface{}{"symbol": "BND", "quantity": 10.0, "cost_basis": 100.0},
		map[string]interface{}{"symbol": "GLD", "quantity": 10.0, "cost_basis": 100.0},
	))

	result := agent.Process(context.Background(), state)

	strengths, _ := result.Fields["strengths"].([]string)
	wantStrengths := []string{
		"Good diversification across holdings",
		"Appropriate number of holdings for diversification",
	}
	for _, want := range wantStrengths {
		found := false
		for _, s := range strengths {
			if s == want {
				found = true
			}
		}
		if !found {
			t.Errorf("strengths = %v, missing %q", strengths, want)
		}
	}
}

func TestParseHoldingsSkipsMalformedEntries(t *testing.T) {
	holdings := parseHoldings(map[string]interface{}{
		"holdings": []interface{}{
			map[string]interface{}{"symbol": "AAPL", "quantity": 5.0, "cost_basis": 100.0},
			"not an object",
			map[string]interface{}{"quantity": 5.0, "cost_basis": 100.0}, // no symbol
		},
	})

	if len(holdings) != 1 || holdings[0].Symbol != "AAPL" {
		t.Errorf("holdings = %v, want only the AAPL entry", holdings)
	}
}
