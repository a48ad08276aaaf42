package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"openai_helper/pkg/ai"
	"openai_helper/pkg/logging"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	openAIDefaultAPIURL = "https://api.openai.com/v1"
	openAIKeyLabel      = "OpenAI"
)

func init() {
	ai.RegisterProvider(ai.ProviderInfo{
		Type:        ai.ProviderOpenAI,
		Name:        "OpenAI",
		Description: "OpenAI chat completions API",
	}, NewOpenAIProvider)
}

// OpenAIProvider implements the Provider interface using the OpenAI API directly.
type OpenAIProvider struct {
	client openai.Client
	keys   ai.KeyProvider
}

// NewOpenAIProvider creates a new OpenAI provider from config. The API key is
// not resolved here; it is read on every Complete call.
func NewOpenAIProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	apiURL := strings.TrimSpace(cfg.Config.APIURL)
	if apiURL == "" {
		apiURL = openAIDefaultAPIURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
		if cfg.Config.APITimeoutSeconds > 0 {
			httpClient.Timeout = time.Duration(cfg.Config.APITimeoutSeconds) * time.Second
		}
	}

	keys := cfg.Keys
	if keys == nil {
		keys = ai.EnvKeyProvider{Var: "OPENAI_API_KEY"}
	}

	client := openai.NewClient(
		option.WithBaseURL(apiURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
		option.WithMiddleware(captureErrorBody),
	)

	return &OpenAIProvider{
		client: client,
		keys:   keys,
	}, nil
}

// Complete sends prompt as a single user message and waits for the full reply.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, params ai.CompletionParameters) (string, error) {
	key, err := ai.RequireKey(p.keys, openAIKeyLabel)
	if err != nil {
		slog.Debug("openai_provider_missing_key", "source", p.keys.Source())
		return "", err
	}

	req, err := buildChatParams(prompt, params)
	if err != nil {
		return "", err
	}

	slog.Debug("openai_request",
		"model", params.Model,
		"reasoning_effort", string(params.ReasoningEffort),
		"token_field", string(params.TokenField),
		"max_output_tokens", params.MaxOutputTokens,
		"prompt_chars", len(prompt),
		"api_key", logging.MaskKey(key),
	)

	resp, err := p.client.Chat.Completions.New(ctx, req, option.WithAPIKey(key))
	if err != nil {
		// The client may wrap what the middleware returned.
		var transportErr *ai.TransportError
		if errors.As(err, &transportErr) {
			return "", transportErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &ai.TransportError{Err: ctxErr}
		}
		return "", fmt.Errorf("OpenAI request: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	slog.Debug("openai_response",
		"model", resp.Model,
		"choices", len(resp.Choices),
		"completion_tokens", resp.Usage.CompletionTokens,
		"empty", content == "",
	)

	return ai.ReplyOrFallback(content), nil
}

func buildChatParams(prompt string, params ai.CompletionParameters) (openai.ChatCompletionNewParams, error) {
	model := strings.TrimSpace(params.Model)
	if model == "" {
		return openai.ChatCompletionNewParams{}, &ai.ConfigurationError{Msg: "model is required"}
	}

	req := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	if params.MaxOutputTokens > 0 {
		switch params.TokenField {
		case ai.TokenFieldMaxTokens:
			req.MaxTokens = openai.Int(int64(params.MaxOutputTokens))
		case ai.TokenFieldMaxCompletionTokens, "":
			req.MaxCompletionTokens = openai.Int(int64(params.MaxOutputTokens))
		default:
			return openai.ChatCompletionNewParams{}, &ai.ConfigurationError{Msg: fmt.Sprintf("invalid token field: %q", params.TokenField)}
		}
	}

	if params.ReasoningEffort != ai.ReasoningEffortNone {
		req.ReasoningEffort = shared.ReasoningEffort(params.ReasoningEffort)
	}

	return req, nil
}

// captureErrorBody turns every exchange that does not end in a 2xx status into
// a TransportError, keeping the response body verbatim.
func captureErrorBody(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	resp, err := next(req)
	if err != nil {
		slog.Error("openai_transport_error", "error", err)
		return resp, &ai.TransportError{Err: err}
	}
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}

	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, &ai.TransportError{StatusCode: resp.StatusCode, Err: readErr}
	}

	slog.Error("openai_status_error",
		"status_code", resp.StatusCode,
		"response_size", len(body),
	)
	return nil, &ai.TransportError{StatusCode: resp.StatusCode, Body: string(body)}
}

// Ensure interface compliance
var _ ai.Provider = (*OpenAIProvider)(nil)
