package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/SankarSubbayya/Finnie/pkg/store"
)

type QueryRequest struct {
	UserID    string                 `json:"user_id" validate:"required"`
	Query     string                 `json:"query" validate:"required"`
	SessionID uuid.UUID              `json:"session_id,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

type QueryResponse struct {
	Response   string                 `json:"response"`
	Sources    []SourceDTO            `json:"sources"`
	Agent      string                 `json:"agent"`
	Intent     string                 `json:"intent"`
	Confidence float64                `json:"confidence"`
	Approved   bool                   `json:"approved"`
	Compliance ComplianceDTO          `json:"compliance"`
	Analysis   map[string]interface{} `json:"analysis"`
	SessionID  uuid.UUID              `json:"session_id,omitempty"`
}

type SourceDTO struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

type ComplianceDTO struct {
	Disclaimers  []string `json:"disclaimers"`
	RiskWarnings []string `json:"risk_warnings"`
	Flags        []string `json:"flags"`
	Jurisdiction string   `json:"jurisdiction,omitempty"`
	LastReviewed string   `json:"last_reviewed,omitempty"`
}

type CreateSessionRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SessionHistoryResponse struct {
	Id       uuid.UUID    `json:"id"`
	UserID   string       `json:"user_id"`
	Messages []MessageDTO `json:"messages"`
}

type MessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Agent     string    `json:"agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSourceDTOs maps the pipeline's source records into the API shape
func NewSourceDTOs(sources []store.Source) []SourceDTO {
	out := make([]SourceDTO, len(sources))
	for i, s := range sources {
		out[i] = SourceDTO{Title: s.Title, URL: s.URL, Score: s.Score}
	}
	return out
}

// NewComplianceDTO maps the compliance block into the API shape
func NewComplianceDTO(c store.Compliance) ComplianceDTO {
	return ComplianceDTO{
		Disclaimers:  c.Disclaimers,
		RiskWarnings: c.RiskWarnings,
		Flags:        c.Flags,
		Jurisdiction: c.Jurisdiction,
		LastReviewed: c.LastReviewed,
	}
}

// NewMessageDTOs maps conversation messages into the API shape
func NewMessageDTOs(messages []store.Message) []MessageDTO {
	out := make([]MessageDTO, len(messages))
	for i, m := range messages {
		out[i] = MessageDTO{Role: m.Role, Content: m.Content, Agent: m.Agent, Timestamp: m.Timestamp}
	}
	return out
}
