package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Статусы запроса к AI.
const (
	aiStatusSuccess       = "success"
	aiStatusError         = "error"
	aiStatusEmptyResponse = "error_empty_response"
)

// Исходы обработки события.
const (
	outcomeSuccess   = "success"
	outcomeDefaulted = "defaulted" // Ответ разобран, но часть ключей подставлена по умолчанию
	outcomeFallback  = "fallback"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_relay_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persona_relay_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persona_relay_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(50, 50, 20), // 50, 100, ..., 1000
		},
		[]string{"model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persona_relay_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(10, 10, 20), // 10, 20, ..., 200
		},
		[]string{"model"},
	)
	eventOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_relay_event_outcomes_total",
			Help: "Total number of processed events by outcome (success, defaulted, fallback).",
		},
		[]string{"outcome"},
	)
)

func observeUsage(model string, usage UsageInfo) {
	if usage.PromptTokens > 0 {
		aiPromptTokens.WithLabelValues(model).Observe(float64(usage.PromptTokens))
	}
	if usage.CompletionTokens > 0 {
		aiCompletionTokens.WithLabelValues(model).Observe(float64(usage.CompletionTokens))
	}
}
