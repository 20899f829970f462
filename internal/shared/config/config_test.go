package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearCredential unsets the key for the duration of the test and restores it afterwards.
func clearCredential(t *testing.T) {
	t.Helper()
	t.Setenv(credentialKey, "")
	if err := os.Unsetenv(credentialKey); err != nil {
		t.Fatalf("unset: %v", err)
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestResolveCredentialFromSecretsFile(t *testing.T) {
	clearCredential(t)
	dir := t.TempDir()
	secrets := writeFile(t, dir, "secrets.toml", "OPENAI_API_KEY = \"sk-secrets\"\nOTHER = 3\n")
	dotenv := writeFile(t, dir, ".env", "OPENAI_API_KEY=sk-dotenv\n")

	key, err := resolveCredential(secrets, dotenv)
	if err != nil {
		t.Fatalf("resolveCredential: %v", err)
	}
	if key != "sk-secrets" {
		t.Fatalf("expected secrets key, got %q", key)
	}
	if got := os.Getenv(credentialKey); got != "sk-secrets" {
		t.Fatalf("expected key published to env, got %q", got)
	}
}

func TestResolveCredentialFallsBackToDotenv(t *testing.T) {
	clearCredential(t)
	dir := t.TempDir()
	dotenv := writeFile(t, dir, ".env", "# local\nOPENAI_API_KEY=\"sk-dotenv\"\n")

	key, err := resolveCredential(filepath.Join(dir, "missing.toml"), dotenv)
	if err != nil {
		t.Fatalf("resolveCredential: %v", err)
	}
	if key != "sk-dotenv" {
		t.Fatalf("expected dotenv key, got %q", key)
	}
}

func TestResolveCredentialEnvironmentWinsOverDotenv(t *testing.T) {
	t.Setenv(credentialKey, "sk-env")
	dir := t.TempDir()
	dotenv := writeFile(t, dir, ".env", "OPENAI_API_KEY=sk-dotenv\n")

	key, err := resolveCredential(filepath.Join(dir, "missing.toml"), dotenv)
	if err != nil {
		t.Fatalf("resolveCredential: %v", err)
	}
	if key != "sk-env" {
		t.Fatalf("expected env key, got %q", key)
	}
}

func TestResolveCredentialMissing(t *testing.T) {
	clearCredential(t)
	dir := t.TempDir()

	_, err := resolveCredential(filepath.Join(dir, "missing.toml"), filepath.Join(dir, ".env"))
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestResolveCredentialInvalidSecrets(t *testing.T) {
	clearCredential(t)
	dir := t.TempDir()
	secrets := writeFile(t, dir, "secrets.toml", "OPENAI_API_KEY = \n[[")

	_, err := resolveCredential(secrets, filepath.Join(dir, ".env"))
	if !errors.Is(err, ErrInvalidSecrets) {
		t.Fatalf("expected ErrInvalidSecrets, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_FILE", writeFile(t, dir, "secrets.toml", "OPENAI_API_KEY = \"sk-test\"\n"))
	t.Setenv(credentialKey, "")
	for _, key := range []string{"PORT", "ENV", "LLM_MODEL", "OPENAI_TIMEOUT_SECONDS", "RESUME_MAX_CHARS", "FEEDBACK_RATE_PER_MINUTE", "FEEDBACK_BURST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("unexpected key %q", cfg.OpenAIAPIKey)
	}
	if cfg.Port != "8080" || cfg.Env != "dev" || cfg.LLMModel != defaultModel {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RequestTimeout != 120*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.RequestTimeout)
	}
	if cfg.MaxResumeChars != defaultMaxResumeSize || cfg.MaxUploadBytes != defaultMaxUpload {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
}

func TestNormalizeEnv(t *testing.T) {
	tests := map[string]string{
		"prod":       "production",
		" Staging ":  "staging",
		"local":      "local",
		"":           "dev",
		"whatever":   "dev",
		"production": "production",
	}
	for in, want := range tests {
		if got := normalizeEnv(in); got != want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", in, got, want)
		}
	}
}
