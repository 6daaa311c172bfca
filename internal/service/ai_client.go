package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"persona-relay/internal/config"

	"go.uber.org/zap"
)

// Типы AI клиента, поддерживаемые NewAIClient.
const (
	ClientTypeGemini = "gemini"
	ClientTypeOpenAI = "openai"
)

// UsageInfo содержит информацию об использовании токенов.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Estimated        bool // true, если провайдер не прислал usage и токены посчитаны локально
}

// AIClient интерфейс для обращения к генеративной модели.
type AIClient interface {
	// GenerateJSON отправляет промпт с требованием JSON-ответа и возвращает сырой текст ответа.
	GenerateJSON(ctx context.Context, prompt string) (string, UsageInfo, error)
	// Model возвращает идентификатор модели, к которой обращается клиент.
	Model() string
}

// NewAIClient создает клиент в зависимости от cfg.AIClientType.
// Оба варианта ходят к Gemini: "gemini" через родной SDK, "openai" через OpenAI-совместимый endpoint.
func NewAIClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (AIClient, error) {
	httpClient := &http.Client{Timeout: cfg.AITimeout}

	switch strings.ToLower(cfg.AIClientType) {
	case ClientTypeGemini:
		logger.Info("Используется реализация AI клиента: Gemini")
		return newGeminiClient(ctx, geminiOptions{
			APIKey:     cfg.AIAPIKey,
			Model:      cfg.AIModel,
			BaseURL:    cfg.AIBaseURL,
			HTTPClient: httpClient,
		}, logger)
	case ClientTypeOpenAI:
		logger.Info("Используется реализация AI клиента: OpenAI-compatible")
		return newOpenAIClient(openAIOptions{
			APIKey:     cfg.AIAPIKey,
			Model:      cfg.AIModel,
			BaseURL:    cfg.AIBaseURL,
			HTTPClient: httpClient,
		}, logger), nil
	default:
		return nil, fmt.Errorf("неизвестный тип AI клиента: '%s'", cfg.AIClientType)
	}
}
