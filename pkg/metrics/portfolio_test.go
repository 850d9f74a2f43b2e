package metrics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

type fixedReturns struct {
	series []float64
}

func (f *fixedReturns) DailyReturns(_ []Holding, _ int) ([]float64, error) {
	return f.series, nil
}

func TestHoldingValuePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		holding Holding
		want    float64
	}{
		{"market value wins", Holding{Quantity: 10, CostBasis: 100, CurrentPrice: 120, MarketValue: 1500}, 1500},
		{"current price next", Holding{Quantity: 10, CostBasis: 100, CurrentPrice: 120}, 1200},
		{"cost basis fallback", Holding{Quantity: 10, CostBasis: 100}, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.holding.Value(); got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateEmptyPortfolio(t *testing.T) {
	c := NewCalculator(DefaultRiskFreeRate, nil)

	report := c.Calculate(nil)

	if report.NumHoldings != 0 {
		t.Errorf("NumHoldings = %d, want 0", report.NumHoldings)
	}
	if report.TotalValue != 0 {
		t.Errorf("TotalValue = %v, want 0", report.TotalValue)
	}
	if report.DiversificationRatio != 0 {
		t.Errorf("DiversificationRatio = %v, want 0 for empty portfolio", report.DiversificationRatio)
	}
}

func TestCalculateSingleHolding(t *testing.T) {
	c := NewCalculator(DefaultRiskFreeRate, nil)

	report := c.Calculate([]Holding{
		{Symbol: "AAPL", Quantity: 100, CostBasis: 150},
	})

	if report.TotalValue != 15000 {
		t.Errorf("TotalValue = %v, want 15000", report.TotalValue)
	}
	if !almostEqual(report.HHI, 1.0) {
		t.Errorf("HHI = %v, want 1.0 for single holding", report.HHI)
	}
	if !almostEqual(report.DiversificationRatio, 1.0) {
		t.Errorf("DiversificationRatio = %v, want 1.0 for single holding", report.DiversificationRatio)
	}
	if report.TopSymbol != "AAPL" || !almostEqual(report.TopWeight, 1.0) {
		t.Errorf("top holding = %s/%v, want AAPL/1.0", report.TopSymbol, report.TopWeight)
	}
}

func TestCalculateEqualWeights(t *testing.T) {
	c := NewCalculator(DefaultRiskFreeRate, nil)

	holdings := []Holding{
		{Symbol: "AAPL", Quantity: 10, CostBasis: 100},
		{Symbol: "MSFT", Quantity: 10, CostBasis: 100},
		{Symbol: "GOOGL", Quantity: 10, CostBasis: 100},
		{Symbol: "AMZN", Quantity: 10, CostBasis: 100},
	}
	report := c.Calculate(holdings)

	if !almostEqual(report.HHI, 0.25) {
		t.Errorf("HHI = %v, want 0.25 for 4 equal weights", report.HHI)
	}
	if !almostEqual(report.DiversificationRatio, 4.0) {
		t.Errorf("DiversificationRatio = %v, want 4.0", report.DiversificationRatio)
	}
	if !almostEqual(report.GiniCoefficient, 0) {
		t.Errorf("GiniCoefficient = %v, want 0 for equal weights", report.GiniCoefficient)
	}
	if !almostEqual(report.ConcentrationTop5, 1.0) {
		t.Errorf("ConcentrationTop5 = %v, want 1.0 when fewer than 5 holdings", report.ConcentrationTop5)
	}
	for sym, w := range report.Weights {
		if !almostEqual(w, 0.25) {
			t.Errorf("weight[%s] = %v, want 0.25", sym, w)
		}
	}
}

func TestCalculateRiskMetrics(t *testing.T) {
	// Flat series: 1% up every day. No drawdown, no downside.
	series := make([]float64, TradingDays)
	for i := range series {
		series[i] = 0.01
	}
	c := NewCalculator(DefaultRiskFreeRate, &fixedReturns{series: series})

	report := c.Calculate([]Holding{{Symbol: "SPY", Quantity: 1, CostBasis: 400}})

	if !almostEqual(report.Volatility, 0) {
		t.Errorf("Volatility = %v, want 0 for constant returns", report.Volatility)
	}
	if !almostEqual(report.MaxDrawdown, 0) {
		t.Errorf("MaxDrawdown = %v, want 0 for monotonic growth", report.MaxDrawdown)
	}
	if !almostEqual(report.VaR95, 0.01) {
		t.Errorf("VaR95 = %v, want 0.01", report.VaR95)
	}
	if report.SortinoRatio != 0 {
		t.Errorf("SortinoRatio = %v, want 0 with no downside days", report.SortinoRatio)
	}
}

func TestMaxDrawdown(t *testing.T) {
	// Up 10%, down 20%, up 5%: trough is 0.88 of the 1.10 peak.
	got := maxDrawdown([]float64{0.10, -0.20, 0.05})
	want := -0.20
	if !almostEqual(got, want) {
		t.Errorf("maxDrawdown = %v, want %v", got, want)
	}
}

func TestPercentileInterpolation(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}

	if got := percentile(xs, 50); !almostEqual(got, 3) {
		t.Errorf("percentile(50) = %v, want 3", got)
	}
	if got := percentile(xs, 25); !almostEqual(got, 2) {
		t.Errorf("percentile(25) = %v, want 2", got)
	}
	if got := percentile(xs, 10); !almostEqual(got, 1.4) {
		t.Errorf("percentile(10) = %v, want 1.4", got)
	}
}

func TestSyntheticReturnsDeterministic(t *testing.T) {
	p := NewSyntheticReturnProvider()

	first, err := p.DailyReturns(nil, TradingDays)
	if err != nil {
		t.Fatalf("DailyReturns: %v", err)
	}
	second, err := p.DailyReturns(nil, TradingDays)
	if err != nil {
		t.Fatalf("DailyReturns: %v", err)
	}

	if len(first) != TradingDays {
		t.Fatalf("len = %d, want %d", len(first), TradingDays)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("returns diverge at day %d: %v vs %v", i, first[i], second[i])
		}
	}
}
