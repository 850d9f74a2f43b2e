package service

import (
	"context"

	"github.com/SankarSubbayya/Finnie/internal/dto"
	"github.com/SankarSubbayya/Finnie/internal/pkg/logger"
	"github.com/SankarSubbayya/Finnie/pkg/marketdata"
)

type IMarketService interface {
	GetQuotes(ctx context.Context, symbols []string) (*dto.QuotesResponse, error)
	GetNews(ctx context.Context, query string, limit int) (*dto.NewsResponse, error)
	GetSectors(ctx context.Context) (*dto.SectorsResponse, error)
	GetCalendar(ctx context.Context) (*dto.CalendarResponse, error)
}

type marketService struct {
	provider marketdata.Provider
	logger   logger.ILogger
}

func NewMarketService(provider marketdata.Provider, logger logger.ILogger) IMarketService {
	return &marketService{provider: provider, logger: logger}
}

// GetQuotes returns per-symbol quotes, or the index overview when no
// symbols are requested
func (s *marketService) GetQuotes(ctx context.Context, symbols []string) (*dto.QuotesResponse, error) {
	var quotes map[string]marketdata.Quote
	var err error
	if len(symbols) == 0 {
		quotes, err = s.provider.Indices(ctx)
	} else {
		quotes, err = s.provider.Quotes(ctx, symbols)
	}
	if err != nil {
		s.logger.Error("market_service", "Quote lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return &dto.QuotesResponse{Quotes: quotes}, nil
}

func (s *marketService) GetNews(ctx context.Context, query string, limit int) (*dto.NewsResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	articles, err := s.provider.Search(ctx, query, limit)
	if err != nil {
		s.logger.Error("market_service", "News lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return &dto.NewsResponse{Articles: articles}, nil
}

func (s *marketService) GetSectors(ctx context.Context) (*dto.SectorsResponse, error) {
	sectors, err := s.provider.SectorPerformance(ctx)
	if err != nil {
		s.logger.Error("market_service", "Sector lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return &dto.SectorsResponse{Sectors: sectors}, nil
}

func (s *marketService) GetCalendar(ctx context.Context) (*dto.CalendarResponse, error) {
	events, err := s.provider.Calendar(ctx)
	if err != nil {
		s.logger.Error("market_service", "Calendar lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return &dto.CalendarResponse{Events: events}, nil
}
