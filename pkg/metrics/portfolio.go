package metrics

import (
	"math"
	"math/rand"
	"sort"
)

// Business-rule thresholds for portfolio analysis. These are fixed rules,
// not derived values.
const (
	DefaultRiskFreeRate = 0.02
	TradingDays         = 252

	HighConcentrationWeight = 0.30 // top holding weight above this is a concern
	MinDiversifiedHoldings  = 5    // fewer holdings than this is a concern
	MaxFocusedHoldings      = 20   // more holdings than this suggests over-diversification
	LowSharpeThreshold      = 0.5
	StrongSharpeThreshold   = 1.0
	HighVolatility          = 0.30
	LowVolatility           = 0.10
	DeepDrawdown            = 0.20
)

// Holding is one portfolio position. MarketValue takes precedence over
// CurrentPrice, which takes precedence over CostBasis when valuing it.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	CostBasis    float64 `json:"cost_basis"`
	CurrentPrice float64 `json:"current_price,omitempty"`
	MarketValue  float64 `json:"market_value,omitempty"`
	Sector       string  `json:"sector,omitempty"`
}

// Value returns the position's value using the best available price
func (h Holding) Value() float64 {
	switch {
	case h.MarketValue > 0:
		return h.MarketValue
	case h.CurrentPrice > 0:
		return h.Quantity * h.CurrentPrice
	default:
		return h.Quantity * h.CostBasis
	}
}

// ReturnSeriesProvider supplies the daily return series the risk metrics
// are computed over. Implementations may fetch price history; the default
// is a seeded synthetic generator so results are reproducible in tests.
type ReturnSeriesProvider interface {
	DailyReturns(holdings []Holding, days int) ([]float64, error)
}

// SyntheticReturnProvider generates a normally distributed daily return
// series from a fixed seed (~20% annualized return, ~20% annualized
// volatility, matching the reference generator).
type SyntheticReturnProvider struct {
	Seed       int64
	DailyMean  float64
	DailyStdev float64
}

// NewSyntheticReturnProvider returns the reference-seeded provider
func NewSyntheticReturnProvider() *SyntheticReturnProvider {
	return &SyntheticReturnProvider{Seed: 42, DailyMean: 0.0008, DailyStdev: 0.02}
}

func (p *SyntheticReturnProvider) DailyReturns(_ []Holding, days int) ([]float64, error) {
	rng := rand.New(rand.NewSource(p.Seed))
	returns := make([]float64, days)
	for i := range returns {
		returns[i] = p.DailyMean + p.DailyStdev*rng.NormFloat64()
	}
	return returns, nil
}

// Report holds the computed portfolio metrics
type Report struct {
	TotalValue  float64 `json:"total_value"`
	NumHoldings int     `json:"num_holdings"`

	Volatility          float64 `json:"volatility"`
	SharpeRatio         float64 `json:"sharpe_ratio"`
	SortinoRatio        float64 `json:"sortino_ratio"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	VaR95               float64 `json:"var_95"`
	VaR99               float64 `json:"var_99"`
	ExpectedShortfall95 float64 `json:"expected_shortfall_95"`
	ExpectedShortfall99 float64 `json:"expected_shortfall_99"`

	HHI                  float64 `json:"hhi"`
	DiversificationRatio float64 `json:"diversification_ratio"`
	EffectiveHoldings    float64 `json:"effective_holdings"`
	ConcentrationTop5    float64 `json:"concentration_top5"`
	GiniCoefficient      float64 `json:"gini_coefficient"`

	TopSymbol string             `json:"top_symbol,omitempty"`
	TopWeight float64            `json:"top_weight"`
	Weights   map[string]float64 `json:"weights,omitempty"`
}

// Calculator computes portfolio metrics over a return series supplied by
// the injected provider
type Calculator struct {
	riskFreeRate float64
	provider     ReturnSeriesProvider
}

// NewCalculator creates a metrics calculator. A nil provider falls back to
// the reference synthetic generator.
func NewCalculator(riskFreeRate float64, provider ReturnSeriesProvider) *Calculator {
	if provider == nil {
		provider = NewSyntheticReturnProvider()
	}
	return &Calculator{riskFreeRate: riskFreeRate, provider: provider}
}

// Calculate computes the full metrics report. Empty holdings produce a
// zero report (diversification ratio 0, not a division error).
func (c *Calculator) Calculate(holdings []Holding) *Report {
	report := &Report{NumHoldings: len(holdings)}
	if len(holdings) == 0 {
		return report
	}

	total := 0.0
	for _, h := range holdings {
		total += h.Value()
	}
	report.TotalValue = total

	weights := make(map[string]float64, len(holdings))
	raw := make([]float64, 0, len(holdings))
	for _, h := range holdings {
		w := 0.0
		if total > 0 {
			w = h.Value() / total
		}
		weights[h.Symbol] = w
		raw = append(raw, w)
		if w > report.TopWeight {
			report.TopWeight = w
			report.TopSymbol = h.Symbol
		}
	}
	report.Weights = weights

	hhi := 0.0
	for _, w := range raw {
		hhi += w * w
	}
	report.HHI = hhi
	if hhi > 0 {
		report.DiversificationRatio = 1 / hhi
		report.EffectiveHoldings = 1 / hhi
	}
	report.ConcentrationTop5 = topN(raw, 5)
	report.GiniCoefficient = gini(raw)

	returns, err := c.provider.DailyReturns(holdings, TradingDays)
	if err != nil || len(returns) == 0 {
		return report
	}

	vol := stdev(returns) * math.Sqrt(TradingDays)
	report.Volatility = vol

	annualReturn := mean(returns) * TradingDays
	excess := annualReturn - c.riskFreeRate
	if vol > 0 {
		report.SharpeRatio = excess / vol
	}

	downside := negatives(returns)
	if dd := stdev(downside) * math.Sqrt(TradingDays); dd > 0 {
		report.SortinoRatio = excess / dd
	}

	report.MaxDrawdown = maxDrawdown(returns)
	report.VaR95 = percentile(returns, 5)
	report.VaR99 = percentile(returns, 1)
	report.ExpectedShortfall95 = tailMean(returns, report.VaR95)
	report.ExpectedShortfall99 = tailMean(returns, report.VaR99)

	return report
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdev is the population standard deviation
func stdev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func negatives(xs []float64) []float64 {
	var out []float64
	for _, x := range xs {
		if x < 0 {
			out = append(out, x)
		}
	}
	return out
}

// maxDrawdown is the minimum of (cumulative - peak) / peak over time
func maxDrawdown(returns []float64) float64 {
	cumulative := 1.0
	peak := 1.0
	minDD := 0.0
	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		if dd := (cumulative - peak) / peak; dd < minDD {
			minDD = dd
		}
	}
	return minDD
}

// percentile uses linear interpolation between closest ranks, matching the
// reference implementation's percentile semantics
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// tailMean is the mean of returns at or below the cutoff (expected shortfall)
func tailMean(xs []float64, cutoff float64) float64 {
	var tail []float64
	for _, x := range xs {
		if x <= cutoff {
			tail = append(tail, x)
		}
	}
	return mean(tail)
}

func topN(weights []float64, n int) float64 {
	sorted := make([]float64, len(weights))
	copy(sorted, weights)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if n > len(sorted) {
		n = len(sorted)
	}
	sum := 0.0
	for _, w := range sorted[:n] {
		sum += w
	}
	return sum
}

// gini computes the Gini coefficient of the weight distribution
func gini(weights []float64) float64 {
	n := len(weights)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, weights)
	sort.Float64s(sorted)

	total := 0.0
	weighted := 0.0
	for i, w := range sorted {
		total += w
		weighted += float64(i+1) * w
	}
	if total == 0 {
		return 0
	}
	return 2*weighted/(float64(n)*total) - float64(n+1)/float64(n)
}
