package store

import "time"

// Source is an attribution record attached to an advisory response
type Source struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// Document represents a generic educational content chunk for the retrieval system
type Document struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	Content  string                 `json:"content"`
	URL      string                 `json:"url"`
	Level    string                 `json:"level"` // "beginner" | "intermediate" | "advanced"
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Compliance is the block written by the compliance stage
type Compliance struct {
	Disclaimers  []string `json:"disclaimers"`
	RiskWarnings []string `json:"risk_warnings"`
	Flags        []string `json:"flags"`
	Jurisdiction string   `json:"jurisdiction,omitempty"`
	LastReviewed string   `json:"last_reviewed,omitempty"`
}

// Message is one role-tagged turn in the conversation log.
// The log is append-only and for caller-side display only; the
// advisory core never reads it back.
type Message struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Agent     string    `json:"agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the shared request state threaded through the advisory pipeline.
// One instance is created per incoming query and discarded after the final
// payload is extracted.
type State struct {
	UserID  string                 `json:"user_id"`
	Query   string                 `json:"query"`
	Context map[string]interface{} `json:"context"` // caller-supplied, read-only for the core

	// Routing decision. Category is set exactly once, before any responder runs.
	Category   string  `json:"category"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`

	// Analysis is the responder's scratch space. Analysis["response"] must
	// exist before the compliance stage runs.
	Analysis map[string]interface{} `json:"analysis"`

	Compliance Compliance `json:"compliance"`
	Approved   bool       `json:"approved"`
	Sources    []Source   `json:"sources"`
	Messages   []Message  `json:"messages"`
}

// NewState creates a fresh per-query state
func NewState(userID, query string, context map[string]interface{}) *State {
	if context == nil {
		context = map[string]interface{}{}
	}
	return &State{
		UserID:   userID,
		Query:    query,
		Context:  context,
		Analysis: map[string]interface{}{},
		Sources:  []Source{},
		Messages: []Message{},
	}
}

// UserProfile returns the caller-supplied user profile, or an empty map
func (s *State) UserProfile() map[string]interface{} {
	if profile, ok := s.Context["user_profile"].(map[string]interface{}); ok {
		return profile
	}
	return map[string]interface{}{}
}

// PortfolioData returns the caller-supplied portfolio block, or an empty map
func (s *State) PortfolioData() map[string]interface{} {
	if data, ok := s.Context["portfolio_data"].(map[string]interface{}); ok {
		return data
	}
	return map[string]interface{}{}
}

// Conversation is the in-memory per-session message log
type Conversation struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Messages []Message `json:"messages"`
}
