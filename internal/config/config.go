package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	LLMKey                string
	LLMBaseURL            string
	LLMModel              string
	GoogleAPIKey          string
	GoogleCSEID           string
	Database              string
	ArtifactDir           string
	Port                  string
	LogMode               string
	VideoLookupsPerSecond float64
}

// Load reads configuration from the environment, providing sensible defaults.
func Load() Config {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()
	cfg := Config{
		LLMKey:                firstEnv("GROQ_API_KEY", "OPENAI_API_KEY"),
		LLMBaseURL:            getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:              getEnv("LLM_MODEL", "llama3-70b-8192"),
		GoogleAPIKey:          os.Getenv("GOOGLE_API_KEY"),
		GoogleCSEID:           os.Getenv("GOOGLE_CSE_ID"),
		Database:              getEnv("DATABASE_PATH", "./data/courses.db"),
		ArtifactDir:           getEnv("ARTIFACT_DIR", "./data/artifacts"),
		Port:                  getEnv("PORT", "8080"),
		LogMode:               getEnv("LOG_MODE", "dev"),
		VideoLookupsPerSecond: getFloat("VIDEO_LOOKUPS_PER_SECOND", 5),
	}

	if err := os.MkdirAll(cfg.ArtifactDir, 0o755); err != nil {
		log.Fatalf("failed to ensure artifact dir %s: %v", cfg.ArtifactDir, err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		log.Fatalf("failed to ensure database dir %s: %v", cfg.Database, err)
	}

	return cfg
}

// SearchConfigured reports whether web search augmentation can run.
func (c Config) SearchConfigured() bool {
	return c.GoogleAPIKey != "" && c.GoogleCSEID != ""
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

func getFloat(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		log.Printf("ignoring invalid %s=%q", key, raw)
		return fallback
	}
	return val
}
