// Package workflow runs the advisory pipeline: route the query, dispatch
// to exactly one specialized agent, review the response for compliance,
// and format the final payload. Every stage is bounded by a deadline and
// recovers from panics, so Run always returns a payload.
package workflow

import (
	"context"
	"log"
	"time"

	"github.com/SankarSubbayya/Finnie/pkg/advisor"
	"github.com/SankarSubbayya/Finnie/pkg/compliance"
	"github.com/SankarSubbayya/Finnie/pkg/store"
)

// DefaultStageTimeout bounds each pipeline stage when no timeout is
// configured
const DefaultStageTimeout = 10 * time.Second

// FailureKind classifies where the pipeline degraded. An empty value
// means a clean run.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureRouting    FailureKind = "routing"
	FailureResponder  FailureKind = "responder"
	FailureCompliance FailureKind = "compliance"
	FailureFormat     FailureKind = "format"
)

// Payload is the caller-facing result of one advisory run
type Payload struct {
	Response   string                 `json:"response"`
	Sources    []store.Source         `json:"sources"`
	Agent      string                 `json:"agent"`
	Intent     string                 `json:"intent"`
	Confidence float64                `json:"confidence"`
	Approved   bool                   `json:"approved"`
	Compliance store.Compliance       `json:"compliance"`
	Analysis   map[string]interface{} `json:"analysis"`

	Failure FailureKind `json:"-"`
}

// Engine wires the router, agents, and reviewer into the fixed pipeline
type Engine struct {
	router       *advisor.Router
	agents       map[string]advisor.Agent
	reviewer     *compliance.Reviewer
	stageTimeout time.Duration
	logger       *log.Logger
}

// NewEngine builds the pipeline. Agents are indexed by Category; a
// non-positive stageTimeout falls back to the default.
func NewEngine(router *advisor.Router, agents []advisor.Agent, reviewer *compliance.Reviewer, stageTimeout time.Duration, logger *log.Logger) *Engine {
	if stageTimeout <= 0 {
		stageTimeout = DefaultStageTimeout
	}
	indexed := make(map[string]advisor.Agent, len(agents))
	for _, agent := range agents {
		indexed[agent.Category()] = agent
	}
	return &Engine{
		router:       router,
		agents:       indexed,
		reviewer:     reviewer,
		stageTimeout: stageTimeout,
		logger:       logger,
	}
}

// Run processes one query end to end. It never returns an error: failures
// degrade to a safe payload with Approved false or the error response, and
// the compliance stage runs regardless of what happened upstream.
func (e *Engine) Run(ctx context.Context, userID, query string, reqContext map[string]interface{}) *Payload {
	state := store.NewState(userID, query, reqContext)
	failure := FailureNone

	// Phase 1: routing. The router cannot fail, but a panic or deadline
	// here still lands on the default agent.
	decision, ok := runStage(e, ctx, "ROUTER", func() advisor.Decision {
		return e.router.Route(query)
	})
	if ok {
		state.Category = decision.Category
		state.Intent = decision.Intent
		state.Confidence = decision.Confidence
	} else {
		failure = FailureRouting
		state.Category = advisor.CategoryTutor
		state.Intent = advisor.IntentGeneral
		state.Confidence = 0
	}

	// Phase 2: exactly one specialized agent.
	agent, found := e.agents[state.Category]
	var result *advisor.Result
	if found {
		result, ok = runStage(e, ctx, "AGENT", func() *advisor.Result {
			return agent.Process(ctx, state)
		})
	}
	if !found || !ok || result == nil {
		if failure == FailureNone {
			failure = FailureResponder
		}
		result = &advisor.Result{Response: advisor.ErrResponse, Sources: []store.Source{}}
	}

	state.Analysis["response"] = result.Response
	for key, value := range result.Fields {
		state.Analysis[key] = value
	}
	state.Sources = result.Sources

	// Phase 3: compliance review runs unconditionally, including over the
	// error response.
	review, ok := runStage(e, ctx, "COMPLIANCE", func() *compliance.Review {
		return e.reviewer.Review(result.Response, state.Category)
	})
	if !ok || review == nil {
		if failure == FailureNone {
			failure = FailureCompliance
		}
		state.Approved = false
		state.Compliance = store.Compliance{
			Disclaimers:  []string{"This response has not been compliance reviewed."},
			RiskWarnings: []string{"Please consult with a financial advisor before making investment decisions."},
			Flags:        []string{},
		}
	} else {
		state.Approved = review.Approved
		state.Compliance = review.Compliance
		state.Analysis["response"] = review.Sanitized
	}

	// Phase 4: formatting.
	response, _ := state.Analysis["response"].(string)
	formatted, ok := runStage(e, ctx, "FORMATTER", func() string {
		return Format(response, state.Compliance)
	})
	if !ok {
		if failure == FailureNone {
			failure = FailureFormat
		}
		formatted = response
	}

	now := time.Now()
	state.Messages = append(state.Messages,
		store.Message{Role: "user", Content: query, Timestamp: now},
		store.Message{Role: "assistant", Content: formatted, Agent: state.Category, Timestamp: now},
	)

	if e.logger != nil {
		e.logger.Printf("[WORKFLOW] Completed query for user %s (agent: %s, approved: %t)", userID, state.Category, state.Approved)
	}

	return &Payload{
		Response:   formatted,
		Sources:    state.Sources,
		Agent:      state.Category,
		Intent:     state.Intent,
		Confidence: state.Confidence,
		Approved:   state.Approved,
		Compliance: state.Compliance,
		Analysis:   state.Analysis,
		Failure:    failure,
	}
}

// runStage executes fn with a deadline and panic recovery. The stage's
// output travels through the buffered channel and reaches the caller only
// when the stage beats the deadline; a stage that panicked or overran its
// budget reports a zero value and false, and a late result is discarded
// with the abandoned goroutine. fn must not write to variables shared with
// the caller.
func runStage[T any](e *Engine, ctx context.Context, name string, fn func() T) (T, bool) {
	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()

	type outcome struct {
		value T
		ok    bool
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if e.logger != nil {
					e.logger.Printf("[%s] Recovered from panic: %v", name, r)
				}
				var zero T
				done <- outcome{value: zero}
			}
		}()
		done <- outcome{value: fn(), ok: true}
	}()

	select {
	case out := <-done:
		return out.value, out.ok
	case <-stageCtx.Done():
		if e.logger != nil {
			e.logger.Printf("[%s] Stage deadline exceeded: %v", name, stageCtx.Err())
		}
		var zero T
		return zero, false
	}
}
