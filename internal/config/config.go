package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Advisor AdvisorConfig
	Cache   CacheConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type AdvisorConfig struct {
	RiskFreeRate        float64
	StageTimeoutSeconds int
	SessionTTLMinutes   int
}

type CacheConfig struct {
	QuoteTTLSeconds int
	NewsTTLSeconds  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Advisor: AdvisorConfig{
			RiskFreeRate:        getEnvAsFloat("ADVISOR_RISK_FREE_RATE", 0.02),
			StageTimeoutSeconds: getEnvAsInt("ADVISOR_STAGE_TIMEOUT_SECONDS", 10),
			SessionTTLMinutes:   getEnvAsInt("ADVISOR_SESSION_TTL_MINUTES", 60),
		},
		Cache: CacheConfig{
			QuoteTTLSeconds: getEnvAsInt("MARKET_QUOTE_TTL_SECONDS", 60),
			NewsTTLSeconds:  getEnvAsInt("MARKET_NEWS_TTL_SECONDS", 300),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
