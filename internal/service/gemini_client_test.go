package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"persona-relay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const geminiReplyBody = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "{\"action\":\"Evacuate downtown now\",\"commentary\":\"We cannot risk more lives.\"}"}]},
    "finishReason": "STOP"
  }],
  "usageMetadata": {"promptTokenCount": 180, "candidatesTokenCount": 20, "totalTokenCount": 200}
}`

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc) *geminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := newGeminiClient(context.Background(), geminiOptions{
		APIKey:     "test-key",
		Model:      "gemini-2.0-flash",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestGeminiClient_GenerateJSON(t *testing.T) {
	var gotPath, gotKey, gotBody string
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(geminiReplyBody))
	})

	text, usage, err := client.GenerateJSON(context.Background(), "Mayor Lee prompt")
	require.NoError(t, err)

	assert.Equal(t, `{"action":"Evacuate downtown now","commentary":"We cannot risk more lives."}`, text)
	assert.Equal(t, UsageInfo{PromptTokens: 180, CompletionTokens: 20, TotalTokens: 200}, usage)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Contains(t, gotBody, `"responseMimeType":"application/json"`)
	assert.Contains(t, gotBody, "Mayor Lee prompt")
	assert.Equal(t, "gemini-2.0-flash", client.Model())
}

func TestGeminiClient_ProviderError(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	})

	_, _, err := client.GenerateJSON(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAIGenerationFailed)
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[],"usageMetadata":{"promptTokenCount":5,"totalTokenCount":5}}`))
	})

	_, _, err := client.GenerateJSON(context.Background(), "prompt")
	assert.ErrorIs(t, err, models.ErrEmptyResponse)
}

func TestGeminiClient_ContextCanceled(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := client.GenerateJSON(ctx, "prompt")
	assert.ErrorIs(t, err, models.ErrAIGenerationFailed)
}

func TestGeminiClient_EstimatesUsageWithoutMetadata(t *testing.T) {
	t.Setenv("TIKTOKEN_CACHE_DIR", t.TempDir())
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"action\":\"Run\",\"commentary\":\"Go!\"}"}]},"finishReason":"STOP"}]}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	text, usage, err := client.GenerateJSON(ctx, "River levels rising fast near downtown.")
	require.NoError(t, err)

	assert.Equal(t, `{"action":"Run","commentary":"Go!"}`, text)
	assert.True(t, usage.Estimated)
	assert.Positive(t, usage.PromptTokens)
	assert.Positive(t, usage.CompletionTokens)
	assert.Equal(t, usage.PromptTokens+usage.CompletionTokens, usage.TotalTokens)
	assert.Less(t, time.Since(start), 2*time.Second)
}
