package dto

import "github.com/SankarSubbayya/Finnie/pkg/marketdata"

type QuotesResponse struct {
	Quotes map[string]marketdata.Quote `json:"quotes"`
}

type NewsResponse struct {
	Articles []marketdata.NewsArticle `json:"articles"`
}

type SectorsResponse struct {
	Sectors map[string]marketdata.SectorStat `json:"sectors"`
}

type CalendarResponse struct {
	Events []marketdata.CalendarEvent `json:"events"`
}
