package advisor

import (
	"context"

	"github.com/SankarSubbayya/Finnie/pkg/store"
)

// Agent category constants
const (
	CategoryTutor     = "tutor"
	CategoryPortfolio = "portfolio"
	CategoryMarket    = "market"

	// IntentGeneral is the intent reported when no category keyword matched
	// and the query fell through to the default agent.
	IntentGeneral = "general"
)

// ErrResponse is the user-safe apology returned when an agent fails
// internally. Agents recover their own failures; the workflow engine never
// sees an error from Process.
const ErrResponse = "I encountered an error processing your request. Please try again."

// Result is what a specialized agent produces for a single query.
// Fields carries the category-specific payload (follow-up questions,
// metrics, news, ...) that is merged into the shared analysis map.
type Result struct {
	Response string
	Sources  []store.Source
	Fields   map[string]interface{}
}

// Agent is the contract every specialized responder implements.
// Process must tolerate missing or empty context (returning a guidance
// message), and must never propagate an internal failure: on error it
// returns ErrResponse with empty sources so the pipeline can still proceed
// to compliance and formatting.
type Agent interface {
	Category() string
	Process(ctx context.Context, state *store.State) *Result
}
