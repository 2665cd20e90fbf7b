// Package config centralises all environment configuration for the API and CLI.
// It should be imported only by `cmd/*` (and test code). Business-logic layers
// receive already-built values via dependency injection.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultChatModels is the failover order used when neither CHAT_MODELS nor
// CHAT_MODELS_FILE is set.
const DefaultChatModels = "gemini-2.0-flash-001,gemini-1.5-flash-002,gemini-1.5-pro-002"

// ModelSpec is one entry of the chat failover list.
type ModelSpec struct {
	Name            string  `yaml:"name"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// Config holds every runtime option the server needs.
// Keep it flat and simple; prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port               string
	CORSAllowedOrigins string

	// Data stores
	MongoURI string
	DBName   string

	RedisAddr     string
	StatsCacheTTL time.Duration

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Vertex AI
	ProjectID string
	Location  string

	// Chat assistant
	ChatModels          []ModelSpec
	ChatHistoryLimit    int
	AISearchLimit       int
	AIDescriptionChars  int
	ChatMaxOutputTokens int32

	// Voice
	UploadDir     string
	FFmpegBin     string
	TranscribeURL string
	Transcriber   string // "local" | "gemini"

	// Auth
	JWTSecret string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load parses the environment (and an optional .env file) into Config.
// It exits on missing critical variables so mis-configurations fail fast.
func Load() Config {
	// godotenv.Load() is a no-op if .env doesn't exist, safe in production.
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}

// FromEnv builds a Config from the current process environment.
func FromEnv() (Config, error) {
	mongoURI, err := must("MONGODB_URI")
	if err != nil {
		return Config{}, err
	}

	maxTokens := int32(getInt("CHAT_MAX_OUTPUT_TOKENS", 1000))
	models, err := chatModels(maxTokens)
	if err != nil {
		return Config{}, err
	}

	transcriber := strings.ToLower(getEnv("TRANSCRIBER", "local"))
	if transcriber != "local" && transcriber != "gemini" {
		return Config{}, fmt.Errorf("TRANSCRIBER must be local or gemini, got %q", transcriber)
	}

	return Config{
		Port:                getEnv("PORT", "5000"),
		CORSAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		MongoURI:            mongoURI,
		DBName:              getEnv("MONGODB_DB", "automarket"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		StatsCacheTTL:       getDuration("STATS_CACHE_TTL_SEC", 300),
		ReadTimeout:         getDuration("READ_TIMEOUT_SEC", 10),
		WriteTimeout:        getDuration("WRITE_TIMEOUT_SEC", 60),
		ProjectID:           os.Getenv("GCP_PROJECT_ID"),
		Location:            getEnv("GCP_LOCATION", "us-central1"),
		ChatModels:          models,
		ChatHistoryLimit:    getInt("CHAT_HISTORY_LIMIT", 20),
		AISearchLimit:       getInt("AI_SEARCH_LIMIT", 10),
		AIDescriptionChars:  getInt("AI_DESCRIPTION_CHARS", 200),
		ChatMaxOutputTokens: maxTokens,
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		FFmpegBin:           getEnv("FFMPEG_BIN", "ffmpeg"),
		TranscribeURL:       getEnv("TRANSCRIBE_URL", "http://localhost:5001/transcribe"),
		Transcriber:         transcriber,
		JWTSecret:           os.Getenv("JWT_SECRET"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "console"),
	}, nil
}

// chatModels resolves the failover list: CHAT_MODELS_FILE wins over CHAT_MODELS.
func chatModels(defaultMaxTokens int32) ([]ModelSpec, error) {
	if path := os.Getenv("CHAT_MODELS_FILE"); path != "" {
		specs, err := LoadModelFile(path)
		if err != nil {
			return nil, err
		}
		for i := range specs {
			if specs[i].MaxOutputTokens <= 0 {
				specs[i].MaxOutputTokens = defaultMaxTokens
			}
		}
		return specs, nil
	}

	var specs []ModelSpec
	for _, name := range strings.Split(getEnv("CHAT_MODELS", DefaultChatModels), ",") {
		if name = strings.TrimSpace(name); name != "" {
			specs = append(specs, ModelSpec{Name: name, MaxOutputTokens: defaultMaxTokens})
		}
	}
	if len(specs) == 0 {
		return nil, errors.New("CHAT_MODELS is empty")
	}
	return specs, nil
}

// LoadModelFile reads an ordered model list:
//
//	models:
//	  - name: gemini-2.0-flash-001
//	    temperature: 0.4
//	    max_output_tokens: 1000
func LoadModelFile(path string) ([]ModelSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	var doc struct {
		Models []ModelSpec `yaml:"models"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}
	out := doc.Models[:0]
	for _, m := range doc.Models {
		if strings.TrimSpace(m.Name) != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("model file %s lists no models", path)
	}
	return out, nil
}

// must fetches a required env var.
func must(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("env var %s is required", key)
	}
	return val, nil
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt reads an integer from env, falling back to defaultVal.
func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Int("default", defaultVal).Msg("invalid integer; using default")
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	return time.Duration(getInt(key, defaultSec)) * time.Second
}
