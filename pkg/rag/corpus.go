package rag

import "github.com/SankarSubbayya/Finnie/pkg/store"

// DefaultCorpus returns the built-in educational library. Content is
// bundled so the tutor works without an external document store; a real
// ingestion pipeline would replace this with indexed chunks.
func DefaultCorpus() []store.Document {
	return []store.Document{
		{
			ID:      "edu-001",
			Title:   "Introduction to Investing",
			Level:   "beginner",
			URL:     "https://finnie.learn/investing-basics",
			Content: "Investing is the act of allocating resources, usually money, with the expectation of generating an income or profit. Common investment vehicles include stocks, bonds, mutual funds, and exchange traded funds. The key principle is that money invested today can grow over time through compound returns.",
		},
		{
			ID:      "edu-002",
			Title:   "Understanding Diversification",
			Level:   "beginner",
			URL:     "https://finnie.learn/diversification",
			Content: "Diversification means spreading your investments across different assets so that no single holding dominates your portfolio. A diversified portfolio reduces risk because losses in one asset can be offset by gains in another. Diversification works best across asset classes, sectors, and geographies.",
		},
		{
			ID:      "edu-003",
			Title:   "Risk and Return Basics",
			Level:   "beginner",
			URL:     "https://finnie.learn/risk-return",
			Content: "Risk and return are linked: investments with higher expected returns generally carry higher risk. Understanding your own risk tolerance helps you choose investments you can hold through market swings. Volatility is a common measure of investment risk.",
		},
		{
			ID:      "edu-004",
			Title:   "What Is a Stock Market Index",
			Level:   "beginner",
			URL:     "https://finnie.learn/market-index",
			Content: "A stock market index tracks the performance of a group of stocks, such as the S&P 500 or the NASDAQ. Indices give investors a quick view of overall market trends and serve as benchmarks for portfolio performance. Index funds let investors buy the whole index at low cost.",
		},
		{
			ID:      "edu-005",
			Title:   "Portfolio Theory and Risk Management",
			Level:   "intermediate",
			URL:     "https://finnie.learn/portfolio-theory",
			Content: "Modern Portfolio Theory is a framework for constructing investment portfolios that maximize expected return for a given level of risk. It relies on the correlation between assets: combining assets that do not move together lowers overall portfolio volatility. The efficient frontier describes the set of optimal portfolios.",
		},
		{
			ID:      "edu-006",
			Title:   "Measuring Performance with the Sharpe Ratio",
			Level:   "intermediate",
			URL:     "https://finnie.learn/sharpe-ratio",
			Content: "The Sharpe ratio measures risk adjusted return by dividing excess return over the risk free rate by volatility. A higher Sharpe ratio indicates better compensation for the risk taken. The Sortino ratio is a variant that penalizes only downside volatility.",
		},
		{
			ID:      "edu-007",
			Title:   "Rebalancing Your Portfolio",
			Level:   "intermediate",
			URL:     "https://finnie.learn/rebalancing",
			Content: "Rebalancing restores your portfolio to its target allocation after market moves shift the weights. Selling assets that have grown and buying those that have lagged enforces discipline and controls risk drift. Common approaches rebalance on a calendar schedule or when allocations breach a threshold.",
		},
		{
			ID:      "edu-008",
			Title:   "Quantitative Analysis and Derivatives",
			Level:   "advanced",
			URL:     "https://finnie.learn/quantitative-analysis",
			Content: "Quantitative analysis involves the use of mathematical and statistical methods to evaluate investments. Techniques include factor models, value at risk, and Monte Carlo simulation. Derivatives such as options and futures let investors hedge exposures or express views with leverage.",
		},
		{
			ID:      "edu-009",
			Title:   "Drawdowns and Tail Risk",
			Level:   "advanced",
			URL:     "https://finnie.learn/tail-risk",
			Content: "Maximum drawdown measures the largest peak to trough decline in portfolio value. Value at risk and expected shortfall quantify tail risk at a given confidence level. Managing tail risk often costs expected return, so investors balance protection against performance drag.",
		},
	}
}
