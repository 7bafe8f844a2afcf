package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pagemill/internal/splitter"
)

// Config holds all configuration for the application.
type Config struct {
	DBPath         string
	OutputDir      string
	CleaningRules  string
	ChunkSize      int
	ChunkOverlap   int
	MaxHeaderLevel int
	SplitStrategy  string
	UserAgent      string
	FetchTimeout   time.Duration
	MaxHops        int
	SkipPatterns   []string
	APIPort        string
	LogLevel       string
	LogFormat      string
}

// SplitOptions returns the splitter settings from the config.
func (c *Config) SplitOptions() splitter.Options {
	return splitter.Options{
		ChunkSize:      c.ChunkSize,
		ChunkOverlap:   c.ChunkOverlap,
		MaxHeaderLevel: c.MaxHeaderLevel,
		Strategy:       c.SplitStrategy,
	}
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the numeric ones.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		DBPath:        getEnv("DB_PATH", "./data/pagemill.db"),
		OutputDir:     getEnv("OUTPUT_DIR", ""),
		CleaningRules: getEnv("CLEANING_RULES", ""),
		SplitStrategy: getEnv("SPLIT_STRATEGY", splitter.StrategySmart),
		UserAgent:     getEnv("USER_AGENT", ""),
		APIPort:       getEnv("API_PORT", "9000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}

	cfg.ChunkSize, err = getEnvInt("CHUNK_SIZE", splitter.DefaultChunkSize)
	if err != nil {
		return nil, err
	}
	cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", splitter.DefaultChunkOverlap)
	if err != nil {
		return nil, err
	}
	cfg.MaxHeaderLevel, err = getEnvInt("MAX_HEADER_LEVEL", splitter.DefaultMaxHeaderLevel)
	if err != nil {
		return nil, err
	}
	cfg.MaxHops, err = getEnvInt("MAX_HOPS", 1)
	if err != nil {
		return nil, err
	}

	timeoutSeconds, err := getEnvInt("FETCH_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if timeoutSeconds <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT_SECONDS must be greater than 0")
	}
	cfg.FetchTimeout = time.Duration(timeoutSeconds) * time.Second

	if patterns := getEnv("SKIP_PATTERNS", ""); patterns != "" {
		for _, pattern := range strings.Split(patterns, ",") {
			pattern = strings.TrimSpace(pattern)
			if pattern != "" {
				cfg.SkipPatterns = append(cfg.SkipPatterns, pattern)
			}
		}
	}

	// Validate splitter settings up front so a bad .env fails at startup.
	if _, err := splitter.New(cfg.SplitOptions()); err != nil {
		return nil, fmt.Errorf("invalid splitter configuration: %w", err)
	}

	// Create ./data directory if it doesn't exist (for future DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}
