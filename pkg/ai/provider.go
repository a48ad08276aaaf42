package ai

import (
	"context"
	"fmt"
	"strings"
)

// FallbackResponse is returned when a successful reply carries no text.
const FallbackResponse = "No response from OpenAI."

// ReasoningEffort hints how much internal computation the model spends.
type ReasoningEffort string

const (
	ReasoningEffortNone   ReasoningEffort = ""
	ReasoningEffortLow    ReasoningEffort = "low"
	ReasoningEffortMedium ReasoningEffort = "medium"
	ReasoningEffortHigh   ReasoningEffort = "high"
)

// ParseReasoningEffort accepts low, medium, high, or none/empty.
func ParseReasoningEffort(s string) (ReasoningEffort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ReasoningEffortNone, nil
	case "low":
		return ReasoningEffortLow, nil
	case "medium":
		return ReasoningEffortMedium, nil
	case "high":
		return ReasoningEffortHigh, nil
	default:
		return ReasoningEffortNone, fmt.Errorf("invalid reasoning effort: %q", s)
	}
}

// TokenField names the JSON field carrying the output-token ceiling.
// Newer reasoning models only accept max_completion_tokens.
type TokenField string

const (
	TokenFieldMaxCompletionTokens TokenField = "max_completion_tokens"
	TokenFieldMaxTokens           TokenField = "max_tokens"
)

// ParseTokenField defaults to max_completion_tokens when s is empty.
func ParseTokenField(s string) (TokenField, error) {
	switch strings.TrimSpace(s) {
	case "", string(TokenFieldMaxCompletionTokens):
		return TokenFieldMaxCompletionTokens, nil
	case string(TokenFieldMaxTokens):
		return TokenFieldMaxTokens, nil
	default:
		return "", fmt.Errorf("invalid token field: %q", s)
	}
}

// CompletionParameters are fixed per action.
type CompletionParameters struct {
	Model           string
	ReasoningEffort ReasoningEffort
	MaxOutputTokens int
	TokenField      TokenField
}

// Provider sends one prompt as a single user message and returns the reply text.
// Implementations perform exactly one request per call and never retry.
type Provider interface {
	Complete(ctx context.Context, prompt string, params CompletionParameters) (string, error)
}

// ReplyOrFallback substitutes FallbackResponse for an empty reply.
func ReplyOrFallback(content string) string {
	if content == "" {
		return FallbackResponse
	}
	return content
}
