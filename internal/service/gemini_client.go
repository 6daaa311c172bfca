package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"persona-relay/internal/models"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	geminiAPIVersion   = "v1beta"
	jsonResponseFormat = "application/json"
)

type geminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string // Пусто - адрес SDK по умолчанию
	HTTPClient *http.Client
}

// geminiClient реализует AIClient поверх google.golang.org/genai.
type geminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func newGeminiClient(ctx context.Context, opts geminiOptions, logger *zap.Logger) (*geminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    opts.BaseURL,
			APIVersion: geminiAPIVersion,
		},
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	logger.Info("Gemini client created",
		zap.String("model", opts.Model),
		zap.String("base_url", opts.BaseURL),
	)
	return &geminiClient{client: client, model: opts.Model, logger: logger}, nil
}

func (c *geminiClient) Model() string { return c.model }

// GenerateJSON вызывает generateContent с response_mime_type=application/json.
func (c *geminiClient) GenerateJSON(ctx context.Context, prompt string) (string, UsageInfo, error) {
	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: jsonResponseFormat,
	})
	duration := time.Since(start)
	aiRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	if err != nil {
		aiRequestsTotal.WithLabelValues(c.model, aiStatusError).Inc()
		fields := []zap.Field{zap.Duration("duration", duration), zap.Error(err)}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			fields = append(fields, zap.Int("code", apiErr.Code), zap.String("status", apiErr.Status))
		}
		c.logger.Warn("Gemini request failed", fields...)
		return "", UsageInfo{}, fmt.Errorf("%w: %v", models.ErrAIGenerationFailed, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		aiRequestsTotal.WithLabelValues(c.model, aiStatusEmptyResponse).Inc()
		c.logger.Warn("Gemini returned empty response", zap.Duration("duration", duration))
		return "", UsageInfo{}, models.ErrEmptyResponse
	}

	var usage UsageInfo
	if md := resp.UsageMetadata; md != nil && md.TotalTokenCount > 0 {
		usage = UsageInfo{
			PromptTokens:     int(md.PromptTokenCount),
			CompletionTokens: int(md.CandidatesTokenCount),
			TotalTokens:      int(md.TotalTokenCount),
		}
	} else {
		usage = estimateUsage(prompt, text)
	}

	aiRequestsTotal.WithLabelValues(c.model, aiStatusSuccess).Inc()
	observeUsage(c.model, usage)
	c.logger.Debug("Gemini request completed",
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
		zap.Bool("usage_estimated", usage.Estimated),
	)
	return text, usage, nil
}
