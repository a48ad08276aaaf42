package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"openai_helper/pkg/ai"
	"openai_helper/pkg/config"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(rt roundTripperFunc) *http.Client {
	return &http.Client{Transport: rt}
}

func newHTTPResponse(req *http.Request, status int, contentType string, body []byte) *http.Response {
	resp := &http.Response{
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	return resp
}

func newJSONResponse(t *testing.T, req *http.Request, status int, payload any) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return newHTTPResponse(req, status, "application/json", data)
}

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "o3-mini",
		"choices": []any{
			map[string]any{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func newOpenAIForTest(t *testing.T, keys ai.KeyProvider, rt roundTripperFunc) ai.Provider {
	t.Helper()
	provider, err := NewOpenAIProvider(ai.ProviderConfig{
		Type:       ai.ProviderOpenAI,
		Config:     config.ProviderConfig{APIURL: "https://openai.test/v1", APIKeyEnv: "OPENAI_API_KEY"},
		Keys:       keys,
		HTTPClient: newTestClient(rt),
	})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error: %v", err)
	}
	return provider
}

var askParams = ai.CompletionParameters{
	Model:           "o3-mini",
	ReasoningEffort: ai.ReasoningEffortMedium,
	MaxOutputTokens: 5000,
	TokenField:      ai.TokenFieldMaxCompletionTokens,
}

func TestOpenAIProvider_Complete_WireContract(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotContentType string
	var gotPayload map[string]any

	provider := newOpenAIForTest(t, ai.StaticKey("test-key"), func(req *http.Request) (*http.Response, error) {
		gotMethod = req.Method
		gotPath = req.URL.Path
		gotAuth = req.Header.Get("Authorization")
		gotContentType = req.Header.Get("Content-Type")

		if req.Body == nil {
			t.Fatalf("expected request body")
		}
		if err := json.NewDecoder(req.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		_ = req.Body.Close()

		return newJSONResponse(t, req, http.StatusOK, chatCompletion("ok")), nil
	})

	got, err := provider.Complete(context.Background(), "hello", askParams)
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("Expected response content 'ok', got %q", got)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("Expected POST, got %q", gotMethod)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("Expected path '/v1/chat/completions', got %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Expected Authorization header, got %q", gotAuth)
	}
	if !strings.HasPrefix(gotContentType, "application/json") {
		t.Fatalf("Expected JSON content type, got %q", gotContentType)
	}

	if model, _ := gotPayload["model"].(string); model != "o3-mini" {
		t.Fatalf("Expected model 'o3-mini', got %v", gotPayload["model"])
	}

	messages, ok := gotPayload["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("Expected 1 message, got %v", gotPayload["messages"])
	}
	first, ok := messages[0].(map[string]any)
	if !ok {
		t.Fatalf("Expected message object, got %T", messages[0])
	}
	if first["role"] != "user" {
		t.Fatalf("Expected role 'user', got %v", first["role"])
	}
	if first["content"] != "hello" {
		t.Fatalf("Expected content 'hello', got %v", first["content"])
	}

	if tokens, _ := gotPayload["max_completion_tokens"].(float64); int(tokens) != 5000 {
		t.Fatalf("Expected max_completion_tokens 5000, got %v", gotPayload["max_completion_tokens"])
	}
	if _, present := gotPayload["max_tokens"]; present {
		t.Fatalf("Expected no max_tokens field, got %v", gotPayload["max_tokens"])
	}
	if gotPayload["reasoning_effort"] != "medium" {
		t.Fatalf("Expected reasoning_effort 'medium', got %v", gotPayload["reasoning_effort"])
	}
	if _, present := gotPayload["stream"]; present {
		t.Fatalf("Expected no stream field, got %v", gotPayload["stream"])
	}
}

func TestOpenAIProvider_Complete_MaxTokensVariant(t *testing.T) {
	var gotPayload map[string]any

	provider := newOpenAIForTest(t, ai.StaticKey("test-key"), func(req *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(req.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		return newJSONResponse(t, req, http.StatusOK, chatCompletion("ok")), nil
	})

	params := ai.CompletionParameters{Model: "gpt-4o", MaxOutputTokens: 300, TokenField: ai.TokenFieldMaxTokens}
	if _, err := provider.Complete(context.Background(), "hello", params); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if tokens, _ := gotPayload["max_tokens"].(float64); int(tokens) != 300 {
		t.Fatalf("Expected max_tokens 300, got %v", gotPayload["max_tokens"])
	}
	if _, present := gotPayload["max_completion_tokens"]; present {
		t.Fatalf("Expected no max_completion_tokens, got %v", gotPayload["max_completion_tokens"])
	}
	if _, present := gotPayload["reasoning_effort"]; present {
		t.Fatalf("Expected reasoning_effort omitted, got %v", gotPayload["reasoning_effort"])
	}
}

func TestOpenAIProvider_Complete_MissingKeySkipsNetwork(t *testing.T) {
	var calls int32
	provider := newOpenAIForTest(t, ai.StaticKey(""), func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return newJSONResponse(t, req, http.StatusOK, chatCompletion("ok")), nil
	})

	_, err := provider.Complete(context.Background(), "hello", askParams)
	if err == nil {
		t.Fatal("Expected configuration error")
	}
	var cfgErr *ai.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigurationError, got %T: %v", err, err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("Expected no network calls, got %d", calls)
	}
}

func TestOpenAIProvider_Complete_EnvKeyReadPerRequest(t *testing.T) {
	var gotAuth []string
	provider := newOpenAIForTest(t, ai.EnvKeyProvider{Var: "OPENAI_HELPER_PROVIDER_KEY"}, func(req *http.Request) (*http.Response, error) {
		gotAuth = append(gotAuth, req.Header.Get("Authorization"))
		return newJSONResponse(t, req, http.StatusOK, chatCompletion("ok")), nil
	})

	t.Setenv("OPENAI_HELPER_PROVIDER_KEY", "first")
	if _, err := provider.Complete(context.Background(), "a", askParams); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	t.Setenv("OPENAI_HELPER_PROVIDER_KEY", "second")
	if _, err := provider.Complete(context.Background(), "b", askParams); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	if len(gotAuth) != 2 || gotAuth[0] != "Bearer first" || gotAuth[1] != "Bearer second" {
		t.Fatalf("Expected key re-read per request, got %v", gotAuth)
	}
}

func TestOpenAIProvider_Complete_EmptyChoicesFallback(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"no choices", map[string]any{"choices": []any{}}},
		{"missing choices", map[string]any{"id": "x"}},
		{"empty content", chatCompletion("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newOpenAIForTest(t, ai.StaticKey("test-key"), func(req *http.Request) (*http.Response, error) {
				return newJSONResponse(t, req, http.StatusOK, tt.payload), nil
			})

			got, err := provider.Complete(context.Background(), "hello", askParams)
			if err != nil {
				t.Fatalf("Expected fallback, got error %v", err)
			}
			if got != "No response from OpenAI." {
				t.Fatalf("Expected fallback string, got %q", got)
			}
		})
	}
}

func TestOpenAIProvider_Complete_ErrorStatusCarriesBody(t *testing.T) {
	const body = `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`
	var calls int32

	provider := newOpenAIForTest(t, ai.StaticKey("bad-key"), func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return newHTTPResponse(req, http.StatusUnauthorized, "application/json", []byte(body)), nil
	})

	_, err := provider.Complete(context.Background(), "hello", askParams)
	if err == nil {
		t.Fatal("Expected error for 401")
	}
	if !strings.Contains(err.Error(), body) {
		t.Fatalf("Expected error to contain raw body, got %q", err.Error())
	}
	var transportErr *ai.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %T", err)
	}
	if transportErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", transportErr.StatusCode)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("Expected exactly one request, got %d", calls)
	}
}

func TestOpenAIProvider_Complete_NoRetryOnServerError(t *testing.T) {
	var calls int32
	provider := newOpenAIForTest(t, ai.StaticKey("test-key"), func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return newHTTPResponse(req, http.StatusInternalServerError, "text/plain", []byte("upstream exploded")), nil
	})

	_, err := provider.Complete(context.Background(), "hello", askParams)
	if err == nil || !strings.Contains(err.Error(), "upstream exploded") {
		t.Fatalf("Expected error with body, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("Expected a single attempt, got %d", calls)
	}
}

func TestOpenAIProvider_Complete_NetworkFailure(t *testing.T) {
	provider := newOpenAIForTest(t, ai.StaticKey("test-key"), func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})

	_, err := provider.Complete(context.Background(), "hello", askParams)
	if err == nil {
		t.Fatal("Expected network error")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("Expected cause in error, got %q", err.Error())
	}
	var transportErr *ai.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %T", err)
	}
}

func TestOpenAIProvider_Complete_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := newOpenAIForTest(t, ai.StaticKey("test-key"), func(req *http.Request) (*http.Response, error) {
		cancel()
		return nil, req.Context().Err()
	})

	_, err := provider.Complete(ctx, "hello", askParams)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if strings.Contains(err.Error(), "decode") {
		t.Fatalf("Cancellation should not be reported as a decode failure: %q", err.Error())
	}
	var transportErr *ai.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %T", err)
	}
}

func TestOpenAIProvider_Complete_RequiresModel(t *testing.T) {
	var calls int32
	provider := newOpenAIForTest(t, ai.StaticKey("test-key"), func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return newJSONResponse(t, req, http.StatusOK, chatCompletion("ok")), nil
	})

	if _, err := provider.Complete(context.Background(), "hello", ai.CompletionParameters{}); err == nil {
		t.Fatal("Expected error for missing model")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("Expected no network calls, got %d", calls)
	}
}

func TestOpenAIProvider_Registered(t *testing.T) {
	if !ai.DefaultRegistry.IsRegistered(ai.ProviderOpenAI) {
		t.Fatal("Expected openai provider to be registered")
	}
	if !ai.DefaultRegistry.IsRegistered(ai.ProviderGoogle) {
		t.Fatal("Expected google provider to be registered")
	}
}
