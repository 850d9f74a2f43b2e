package workflow

import (
	"context"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SankarSubbayya/Finnie/pkg/advisor"
	"github.com/SankarSubbayya/Finnie/pkg/compliance"
	"github.com/SankarSubbayya/Finnie/pkg/marketdata"
	"github.com/SankarSubbayya/Finnie/pkg/metrics"
	"github.com/SankarSubbayya/Finnie/pkg/rag"
	"github.com/SankarSubbayya/Finnie/pkg/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestEngine() *Engine {
	logger := testLogger()
	agents := []advisor.Agent{
		advisor.NewTutorAgent(rag.NewRetriever(rag.DefaultCorpus(), logger), logger),
		advisor.NewPortfolioAgent(metrics.NewCalculator(metrics.DefaultRiskFreeRate, nil), logger),
		advisor.NewMarketAgent(marketdata.NewMockProvider(), logger),
	}
	return NewEngine(advisor.NewRouter(logger), agents, compliance.NewReviewer(logger), 5*time.Second, logger)
}

// stubAgent records how often it ran. The counter is atomic because a
// timed-out stage leaves its goroutine running past the test assertions.
type stubAgent struct {
	category string
	calls    atomic.Int32
	process  func(state *store.State) *advisor.Result
}

func (s *stubAgent) Category() string { return s.category }

func (s *stubAgent) Process(_ context.Context, state *store.State) *advisor.Result {
	s.calls.Add(1)
	if s.process != nil {
		return s.process(state)
	}
	return &advisor.Result{Response: "stub response", Sources: []store.Source{}}
}

func TestRunTutorEndToEnd(t *testing.T) {
	engine := newTestEngine()

	payload := engine.Run(context.Background(), "u1", "What is diversification?", map[string]interface{}{
		"user_profile": map[string]interface{}{"experience_level": "beginner"},
	})

	if payload.Agent != advisor.CategoryTutor {
		t.Errorf("Agent = %q, want tutor", payload.Agent)
	}
	if len(payload.Sources) == 0 {
		t.Error("want non-empty sources for a corpus topic")
	}
	if !payload.Approved {
		t.Error("educational response should be approved")
	}
	if !strings.Contains(payload.Response, "**Important Disclaimers:**") {
		t.Errorf("response missing disclaimer block: %q", payload.Response)
	}
	if !strings.Contains(payload.Response, "**Risk Warnings:**") {
		t.Errorf("response missing risk warning block: %q", payload.Response)
	}
	if payload.Failure != FailureNone {
		t.Errorf("Failure = %q, want none", payload.Failure)
	}
}

func TestRunDispatchesExactlyOneAgent(t *testing.T) {
	logger := testLogger()
	tutor := &stubAgent{category: advisor.CategoryTutor}
	portfolio := &stubAgent{category: advisor.CategoryPortfolio}
	market := &stubAgent{category: advisor.CategoryMarket}

	engine := NewEngine(advisor.NewRouter(logger),
		[]advisor.Agent{tutor, portfolio, market},
		compliance.NewReviewer(logger), time.Second, logger)

	engine.Run(context.Background(), "u1", "market news and sector trend", nil)

	if market.calls.Load() != 1 {
		t.Errorf("market calls = %d, want 1", market.calls.Load())
	}
	if tutor.calls.Load() != 0 || portfolio.calls.Load() != 0 {
		t.Errorf("tutor/portfolio calls = %d/%d, want 0/0", tutor.calls.Load(), portfolio.calls.Load())
	}
}

func TestRunBlocksReturnPromises(t *testing.T) {
	engine := newTestEngine()

	payload := engine.Run(context.Background(), "u1", "I guarantee you 20% guaranteed returns", nil)

	if payload.Approved {
		t.Error("Approved = true, want false for a return promise")
	}
	hasPromise := false
	hasProhibited := false
	for _, flag := range payload.Compliance.Flags {
		if flag == compliance.FlagReturnPromise {
			hasPromise = true
		}
		if flag == compliance.FlagProhibitedContent {
			hasProhibited = true
		}
	}
	if !hasPromise {
		t.Errorf("flags = %v, want return_promise", payload.Compliance.Flags)
	}
	if !hasProhibited {
		t.Errorf("flags = %v, want prohibited_content", payload.Compliance.Flags)
	}
	if strings.Contains(strings.ToLower(payload.Response), "guaranteed returns") {
		t.Errorf("prohibited phrase survived sanitization: %q", payload.Response)
	}
}

func TestRunPortfolioMetrics(t *testing.T) {
	engine := newTestEngine()

	payload := engine.Run(context.Background(), "u1", "analyze my portfolio", map[string]interface{}{
		"portfolio_data": map[string]interface{}{
			"holdings": []interface{}{
				map[string]interface{}{"symbol": "AAPL", "quantity": 100.0, "cost_basis": 150.0},
			},
		},
	})

	if payload.Agent != advisor.CategoryPortfolio {
		t.Fatalf("Agent = %q, want portfolio", payload.Agent)
	}
	report, ok := payload.Analysis["metrics"].(*metrics.Report)
	if !ok {
		t.Fatalf("metrics = %T, want *metrics.Report", payload.Analysis["metrics"])
	}
	if report.TotalValue != 15000 {
		t.Errorf("TotalValue = %v, want 15000", report.TotalValue)
	}
	if report.DiversificationRatio != 1.0 {
		t.Errorf("DiversificationRatio = %v, want 1.0", report.DiversificationRatio)
	}
}

func TestRunRecoversFromAgentPanic(t *testing.T) {
	logger := testLogger()
	panicking := &stubAgent{
		category: advisor.CategoryTutor,
		process:  func(*store.State) *advisor.Result { panic("boom") },
	}
	engine := NewEngine(advisor.NewRouter(logger),
		[]advisor.Agent{panicking},
		compliance.NewReviewer(logger), time.Second, logger)

	payload := engine.Run(context.Background(), "u1", "explain bonds", nil)

	if payload.Failure != FailureResponder {
		t.Errorf("Failure = %q, want responder", payload.Failure)
	}
	if !strings.Contains(payload.Response, advisor.ErrResponse) {
		t.Errorf("Response = %q, want the error response", payload.Response)
	}
	if len(payload.Compliance.Disclaimers) == 0 {
		t.Error("compliance must still run after an agent failure")
	}
}

func TestRunAgentDeadline(t *testing.T) {
	logger := testLogger()
	slow := &stubAgent{
		category: advisor.CategoryTutor,
		process: func(*store.State) *advisor.Result {
			time.Sleep(500 * time.Millisecond)
			return &advisor.Result{Response: "too late"}
		},
	}
	engine := NewEngine(advisor.NewRouter(logger),
		[]advisor.Agent{slow},
		compliance.NewReviewer(logger), 50*time.Millisecond, logger)

	payload := engine.Run(context.Background(), "u1", "explain bonds", nil)

	if payload.Failure != FailureResponder {
		t.Errorf("Failure = %q, want responder", payload.Failure)
	}
	if strings.Contains(payload.Response, "too late") {
		t.Errorf("Response = %q, slow result must be discarded", payload.Response)
	}
}

func TestRunNeverLeaksTimedOutResult(t *testing.T) {
	logger := testLogger()
	racing := &stubAgent{
		category: advisor.CategoryTutor,
		process: func(*store.State) *advisor.Result {
			time.Sleep(2 * time.Millisecond)
			return &advisor.Result{Response: "finished after the deadline"}
		},
	}
	// Agent latency equals the stage budget, so either side can win any
	// given run. A payload must be all of one or all of the other: an
	// agent response with a responder failure means a timed-out stage
	// leaked its result.
	engine := NewEngine(advisor.NewRouter(logger),
		[]advisor.Agent{racing},
		compliance.NewReviewer(logger), 2*time.Millisecond, logger)

	for i := 0; i < 200; i++ {
		payload := engine.Run(context.Background(), "u1", "explain bonds", nil)

		leaked := strings.Contains(payload.Response, "finished after the deadline")
		if leaked && payload.Failure == FailureResponder {
			t.Fatalf("iteration %d: timed-out agent result leaked into payload (Failure = %q): %q",
				i, payload.Failure, payload.Response)
		}
		if !leaked && payload.Failure == FailureResponder && !strings.Contains(payload.Response, advisor.ErrResponse) {
			t.Fatalf("iteration %d: responder failure without the error response: %q", i, payload.Response)
		}
	}
}

func TestRunMissingAgentFallsBackSafely(t *testing.T) {
	logger := testLogger()
	// Only the market agent is registered; a tutor query has no responder.
	engine := NewEngine(advisor.NewRouter(logger),
		[]advisor.Agent{&stubAgent{category: advisor.CategoryMarket}},
		compliance.NewReviewer(logger), time.Second, logger)

	payload := engine.Run(context.Background(), "u1", "explain compounding", nil)

	if payload.Failure != FailureResponder {
		t.Errorf("Failure = %q, want responder", payload.Failure)
	}
	if !strings.Contains(payload.Response, advisor.ErrResponse) {
		t.Errorf("Response = %q, want the error response", payload.Response)
	}
}

func TestRunAppendsConversationMessages(t *testing.T) {
	engine := newTestEngine()

	payload := engine.Run(context.Background(), "u1", "What is compound interest?", nil)

	if payload.Analysis["response"] == "" {
		t.Error("analysis response missing")
	}
	// The payload response is the formatted text, which always ends with
	// the compliance blocks.
	if !strings.HasSuffix(strings.TrimSpace(payload.Response), "before investing.") {
		t.Errorf("formatted response should end with the base risk warnings: %q", payload.Response)
	}
}

func TestFormat(t *testing.T) {
	c := store.Compliance{
		Disclaimers:  []string{"Educational use only."},
		RiskWarnings: []string{"Investing involves risk."},
	}

	got := Format("Hello.", c)

	want := "Hello.\n\n---\n**Important Disclaimers:**\n• Educational use only.\n\n**Risk Warnings:**\n• Investing involves risk.\n"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatWithoutCompliance(t *testing.T) {
	if got := Format("Hello.", store.Compliance{}); got != "Hello." {
		t.Errorf("Format = %q, want unchanged response", got)
	}
}
