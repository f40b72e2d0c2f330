package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	StoragePath        string
	GeoIPDBPath        string
	AnalysisBaseURL    string
	AnalysisAPIKey     string
	AnalysisTimeout    time.Duration
	MinConfidence      float64
	MinFeasibility     float64
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// DATABASE_URL is optional: without it the brief store degrades to the
// filesystem fallback, matching the best-effort persistence contract.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		AnalysisBaseURL:    os.Getenv("ANALYSIS_BASE_URL"),
		AnalysisAPIKey:     os.Getenv("ANALYSIS_API_KEY"),
		AnalysisTimeout:    time.Second * time.Duration(getEnvInt("ANALYSIS_TIMEOUT_SECONDS", 30)),
		MinConfidence:      getEnvFloat("BRIEF_MIN_CONFIDENCE", 0.75),
		MinFeasibility:     getEnvFloat("BRIEF_MIN_FEASIBILITY", 0.85),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.AnalysisBaseURL == "" {
		return nil, fmt.Errorf("ANALYSIS_BASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
