package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	credentialKey = "OPENAI_API_KEY"

	defaultSecretsFile   = "config/secrets.toml"
	defaultModel         = "gpt-3.5-turbo"
	defaultMaxUpload     = 10 << 20 // 10MB
	defaultMaxResumeSize = 48000
)

// ErrMissingCredential is returned when no API key is found in the secrets file or the environment.
var ErrMissingCredential = errors.New("OPENAI_API_KEY is not configured")

// Config holds application configuration.
type Config struct {
	Port                  string
	Env                   string
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	LLMModel              string
	RequestTimeout        time.Duration
	MaxResumeChars        int
	MaxUploadBytes        int64
	FeedbackRatePerMinute float64
	FeedbackBurst         int
}

// Load resolves the credential and reads the rest of the configuration from the environment.
func Load() (Config, error) {
	secretsPath := getEnv("SECRETS_FILE", defaultSecretsFile)
	apiKey, err := resolveCredential(secretsPath, ".env")
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:                  getEnv("PORT", "8080"),
		Env:                   normalizeEnv(getEnv("ENV", "dev")),
		OpenAIAPIKey:          apiKey,
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
		LLMModel:              getEnv("LLM_MODEL", defaultModel),
		RequestTimeout:        time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 120)) * time.Second,
		MaxResumeChars:        getEnvInt("RESUME_MAX_CHARS", defaultMaxResumeSize),
		MaxUploadBytes:        defaultMaxUpload,
		FeedbackRatePerMinute: float64(getEnvInt("FEEDBACK_RATE_PER_MINUTE", 6)),
		FeedbackBurst:         getEnvInt("FEEDBACK_BURST", 3),
	}, nil
}

// resolveCredential checks the secrets file first and publishes a hit into the
// process environment; otherwise it falls back to the dotenv file.
func resolveCredential(secretsPath, dotenvPath string) (string, error) {
	secrets, err := loadSecrets(secretsPath)
	if err != nil {
		return "", err
	}
	if val := strings.TrimSpace(secrets[credentialKey]); val != "" {
		if err := os.Setenv(credentialKey, val); err != nil {
			return "", fmt.Errorf("publish %s: %w", credentialKey, err)
		}
	} else {
		loadDotenv(dotenvPath)
	}

	key := strings.TrimSpace(os.Getenv(credentialKey))
	if key == "" {
		return "", ErrMissingCredential
	}
	return key, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
