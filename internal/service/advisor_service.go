package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/SankarSubbayya/Finnie/internal/dto"
	"github.com/SankarSubbayya/Finnie/internal/pkg/logger"
	"github.com/SankarSubbayya/Finnie/internal/repository/memory"
	"github.com/SankarSubbayya/Finnie/pkg/store"
	"github.com/SankarSubbayya/Finnie/pkg/workflow"
)

type IAdvisorService interface {
	ProcessQuery(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
	CreateSession(ctx context.Context, userID string) (*dto.CreateSessionResponse, error)
	GetHistory(ctx context.Context, sessionID uuid.UUID) (*dto.SessionHistoryResponse, error)
}

type advisorService struct {
	engine        *workflow.Engine
	conversations *memory.ConversationRepository
	logger        logger.ILogger
}

func NewAdvisorService(engine *workflow.Engine, conversations *memory.ConversationRepository, logger logger.ILogger) IAdvisorService {
	return &advisorService{
		engine:        engine,
		conversations: conversations,
		logger:        logger,
	}
}

// ProcessQuery runs the advisory pipeline and appends the exchange to the
// session log when the request names an existing session
func (s *advisorService) ProcessQuery(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	payload := s.engine.Run(ctx, req.UserID, req.Query, req.Context)

	if payload.Failure != workflow.FailureNone {
		s.logger.Warn("advisor_service", "Pipeline degraded", map[string]interface{}{
			"user_id": req.UserID,
			"failure": string(payload.Failure),
		})
	}

	res := &dto.QueryResponse{
		Response:   payload.Response,
		Sources:    dto.NewSourceDTOs(payload.Sources),
		Agent:      payload.Agent,
		Intent:     payload.Intent,
		Confidence: payload.Confidence,
		Approved:   payload.Approved,
		Compliance: dto.NewComplianceDTO(payload.Compliance),
		Analysis:   payload.Analysis,
	}

	if req.SessionID != uuid.Nil {
		now := time.Now()
		messages := []store.Message{
			{Role: "user", Content: req.Query, Timestamp: now},
			{Role: "assistant", Content: payload.Response, Agent: payload.Agent, Timestamp: now},
		}
		if s.conversations.AppendMessages(req.SessionID.String(), messages...) {
			res.SessionID = req.SessionID
		} else {
			s.logger.Warn("advisor_service", "Unknown session, exchange not logged", map[string]interface{}{
				"session_id": req.SessionID.String(),
			})
		}
	}

	s.logger.Info("advisor_service", "Query processed", map[string]interface{}{
		"user_id":  req.UserID,
		"agent":    payload.Agent,
		"approved": payload.Approved,
	})

	return res, nil
}

func (s *advisorService) CreateSession(_ context.Context, userID string) (*dto.CreateSessionResponse, error) {
	id := uuid.New()
	s.conversations.Save(&store.Conversation{
		ID:       id.String(),
		UserID:   userID,
		Messages: []store.Message{},
	})

	s.logger.Info("advisor_service", "Session created", map[string]interface{}{
		"session_id": id.String(),
		"user_id":    userID,
	})

	return &dto.CreateSessionResponse{Id: id}, nil
}

func (s *advisorService) GetHistory(_ context.Context, sessionID uuid.UUID) (*dto.SessionHistoryResponse, error) {
	conversation, found := s.conversations.Get(sessionID.String())
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	return &dto.SessionHistoryResponse{
		Id:       sessionID,
		UserID:   conversation.UserID,
		Messages: dto.NewMessageDTOs(conversation.Messages),
	}, nil
}
