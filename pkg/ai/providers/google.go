package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"openai_helper/pkg/ai"

	"google.golang.org/genai"
)

const googleKeyLabel = "Google"

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:        ai.ProviderGoogle,
		Name:        "Google",
		Description: "Google AI (Gemini) API",
	}, NewGoogleProvider)
}

type googleModelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// newGoogleModels builds a models client for one request. Replaced in tests.
var newGoogleModels = func(ctx context.Context, cfg *genai.ClientConfig) (googleModelsClient, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// Thinking budgets standing in for reasoning effort.
var googleThinkingBudgets = map[ai.ReasoningEffort]int32{
	ai.ReasoningEffortLow:    1024,
	ai.ReasoningEffortMedium: 8192,
	ai.ReasoningEffortHigh:   24576,
}

// GoogleProvider implements the Provider interface using the native Google AI SDK.
type GoogleProvider struct {
	keys       ai.KeyProvider
	httpClient *http.Client
}

// NewGoogleProvider creates a new Google provider from config.
func NewGoogleProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	keys := cfg.Keys
	if keys == nil {
		keys = ai.EnvKeyProvider{Var: "GEMINI_API_KEY"}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
		if cfg.Config.APITimeoutSeconds > 0 {
			httpClient.Timeout = time.Duration(cfg.Config.APITimeoutSeconds) * time.Second
		}
	}

	return &GoogleProvider{
		keys:       keys,
		httpClient: httpClient,
	}, nil
}

// Complete sends prompt as a single user turn.
func (p *GoogleProvider) Complete(ctx context.Context, prompt string, params ai.CompletionParameters) (string, error) {
	key, err := ai.RequireKey(p.keys, googleKeyLabel)
	if err != nil {
		slog.Debug("google_provider_missing_key", "source", p.keys.Source())
		return "", err
	}

	model, contents, genCfg, err := buildGoogleRequest(prompt, params)
	if err != nil {
		return "", err
	}

	models, err := newGoogleModels(ctx, &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	})
	if err != nil {
		return "", &ai.ConfigurationError{Msg: fmt.Sprintf("create google client: %v", err)}
	}

	slog.Debug("google_request",
		"model", model,
		"reasoning_effort", string(params.ReasoningEffort),
		"max_output_tokens", params.MaxOutputTokens,
		"prompt_chars", len(prompt),
	)

	resp, err := models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		return "", &ai.TransportError{Err: err}
	}

	return ai.ReplyOrFallback(extractVisibleText(resp)), nil
}

func buildGoogleRequest(prompt string, params ai.CompletionParameters) (string, []*genai.Content, *genai.GenerateContentConfig, error) {
	model := strings.TrimSpace(params.Model)
	if model == "" {
		return "", nil, nil, &ai.ConfigurationError{Msg: "model is required"}
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	config := &genai.GenerateContentConfig{}
	if params.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(params.MaxOutputTokens)
	}
	if budget, ok := googleThinkingBudgets[params.ReasoningEffort]; ok {
		config.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(budget),
		}
	}

	return model, contents, config, nil
}

func extractVisibleText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// Ensure interface compliance
var _ ai.Provider = (*GoogleProvider)(nil)
