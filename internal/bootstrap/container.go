package bootstrap

import (
	"log"
	"os"
	"time"

	"github.com/SankarSubbayya/Finnie/internal/config"
	"github.com/SankarSubbayya/Finnie/internal/controller"
	"github.com/SankarSubbayya/Finnie/internal/pkg/logger"
	"github.com/SankarSubbayya/Finnie/internal/repository/memory"
	"github.com/SankarSubbayya/Finnie/internal/service"
	"github.com/SankarSubbayya/Finnie/pkg/advisor"
	"github.com/SankarSubbayya/Finnie/pkg/compliance"
	"github.com/SankarSubbayya/Finnie/pkg/marketdata"
	"github.com/SankarSubbayya/Finnie/pkg/metrics"
	"github.com/SankarSubbayya/Finnie/pkg/rag"
	"github.com/SankarSubbayya/Finnie/pkg/workflow"
)

type Container struct {
	// Controllers
	AdvisorController controller.IAdvisorController
	MarketController  controller.IMarketController

	// Exposed for graceful shutdown
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLog := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Market Data (mock upstream behind the TTL cache)
	provider := marketdata.NewCachedProvider(
		marketdata.NewMockProvider(),
		time.Duration(cfg.Cache.QuoteTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.NewsTTLSeconds)*time.Second,
		pipelineLog,
	)

	// 3. Advisory Pipeline
	retriever := rag.NewRetriever(rag.DefaultCorpus(), pipelineLog)
	calculator := metrics.NewCalculator(cfg.Advisor.RiskFreeRate, nil)

	agents := []advisor.Agent{
		advisor.NewTutorAgent(retriever, pipelineLog),
		advisor.NewPortfolioAgent(calculator, pipelineLog),
		advisor.NewMarketAgent(provider, pipelineLog),
	}

	engine := workflow.NewEngine(
		advisor.NewRouter(pipelineLog),
		agents,
		compliance.NewReviewer(pipelineLog),
		time.Duration(cfg.Advisor.StageTimeoutSeconds)*time.Second,
		pipelineLog,
	)

	// 4. In-Memory Session Storage
	conversations := memory.NewConversationRepository(time.Duration(cfg.Advisor.SessionTTLMinutes) * time.Minute)

	// 5. Services
	advisorService := service.NewAdvisorService(engine, conversations, sysLogger)
	marketService := service.NewMarketService(provider, sysLogger)

	// 6. Controllers
	return &Container{
		AdvisorController: controller.NewAdvisorController(advisorService),
		MarketController:  controller.NewMarketController(marketService),
		Logger:            sysLogger,
	}
}
