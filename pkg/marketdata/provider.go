// Package marketdata supplies quotes, news, sector performance, and
// calendar events behind provider interfaces. The bundled providers are
// deterministic mocks; a real upstream (broker API, news feed) plugs in by
// implementing the same interfaces.
package marketdata

import (
	"context"
	"time"
)

// Quote is a single-symbol snapshot
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Open          float64   `json:"open"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewsArticle is one news item with a relevance score in [0, 1]
type NewsArticle struct {
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Sentiment string    `json:"sentiment"`
	Relevance float64   `json:"relevance"`
	Summary   string    `json:"summary,omitempty"`
	Published time.Time `json:"published_at"`
}

// SectorStat is one sector's daily performance
type SectorStat struct {
	Return float64 `json:"return"`
	Volume int64   `json:"volume"`
}

// CalendarEvent is an upcoming market event
type CalendarEvent struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Event       string `json:"event"`
	Impact      string `json:"impact"`
	Forecast    string `json:"forecast"`
	Description string `json:"description"`
}

// QuoteProvider serves per-symbol quotes and the index overview
type QuoteProvider interface {
	Quotes(ctx context.Context, symbols []string) (map[string]Quote, error)
	Indices(ctx context.Context) (map[string]Quote, error)
}

// NewsProvider searches news articles by free-text query
type NewsProvider interface {
	Search(ctx context.Context, query string, limit int) ([]NewsArticle, error)
}

// ReferenceProvider serves sector performance and calendar data
type ReferenceProvider interface {
	SectorPerformance(ctx context.Context) (map[string]SectorStat, error)
	Calendar(ctx context.Context) ([]CalendarEvent, error)
}
