package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Sampling parameters for every feedback completion.
const (
	Temperature float32 = 0.5
	MaxTokens           = 1000
)

// Completer sends a single-turn prompt to a hosted model and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PromptHash returns a stable fingerprint of a prompt for logs that must not carry resume content.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
