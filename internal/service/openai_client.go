package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"persona-relay/internal/models"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAI-совместимый endpoint Gemini.
const geminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

type openAIOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// openAIClient реализует AIClient с использованием go-openai.
type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

func newOpenAIClient(opts openAIOptions, logger *zap.Logger) *openAIClient {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = geminiOpenAIBaseURL
	}
	openaiConfig := openaigo.DefaultConfig(opts.APIKey)
	openaiConfig.BaseURL = baseURL
	if opts.HTTPClient != nil {
		openaiConfig.HTTPClient = opts.HTTPClient
	}
	logger.Info("OpenAI client created",
		zap.String("model", opts.Model),
		zap.String("base_url", baseURL),
	)
	return &openAIClient{
		client: openaigo.NewClientWithConfig(openaiConfig),
		model:  opts.Model,
		logger: logger,
	}
}

func (c *openAIClient) Model() string { return c.model }

// GenerateJSON отправляет промпт одним user-сообщением с response_format=json_object.
func (c *openAIClient) GenerateJSON(ctx context.Context, prompt string) (string, UsageInfo, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	duration := time.Since(start)
	aiRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())

	if err != nil {
		aiRequestsTotal.WithLabelValues(c.model, aiStatusError).Inc()
		c.logger.Warn("OpenAI request failed", zap.Duration("duration", duration), zap.Error(err))
		return "", UsageInfo{}, fmt.Errorf("%w: %v", models.ErrAIGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		aiRequestsTotal.WithLabelValues(c.model, aiStatusEmptyResponse).Inc()
		c.logger.Warn("OpenAI returned empty response", zap.Duration("duration", duration))
		return "", UsageInfo{}, models.ErrEmptyResponse
	}
	text := resp.Choices[0].Message.Content

	var usage UsageInfo
	if resp.Usage.TotalTokens > 0 {
		usage = UsageInfo{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	} else {
		usage = estimateUsage(prompt, text)
	}

	aiRequestsTotal.WithLabelValues(c.model, aiStatusSuccess).Inc()
	observeUsage(c.model, usage)
	c.logger.Debug("OpenAI request completed",
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
		zap.Bool("usage_estimated", usage.Estimated),
	)
	return text, usage, nil
}
