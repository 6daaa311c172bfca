package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"persona-relay/internal/models"
	"persona-relay/internal/prompt"

	"go.uber.org/zap"
)

// Этапы, на которых может сломаться обращение к провайдеру.
const (
	StageGenerate = "generate"
	StageParse    = "parse"
)

// ProviderFailure описывает любую ошибку на пути к провайдеру и обратно.
// Наружу из EventService не выходит: Respond превращает ее в резервный ответ.
type ProviderFailure struct {
	Stage string
	Err   error
}

func (f *ProviderFailure) Error() string {
	return fmt.Sprintf("provider failure at %s: %v", f.Stage, f.Err)
}

func (f *ProviderFailure) Unwrap() error { return f.Err }

// generation - успешный результат одного обращения к модели.
type generation struct {
	Result      models.EventResult
	MissingKeys []string
	Usage       UsageInfo
}

// EventService строит промпт, вызывает модель и разбирает ответ.
type EventService struct {
	ai      AIClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewEventService создает сервис. timeout <= 0 отключает ограничение по времени.
func NewEventService(ai AIClient, timeout time.Duration, logger *zap.Logger) *EventService {
	return &EventService{
		ai:      ai,
		timeout: timeout,
		logger:  logger.Named("EventService"),
	}
}

// Respond всегда возвращает результат: при любой ошибке провайдера отдается FallbackEventResult.
// Отмена ctx клиентом не прерывает запрос к модели, действует только собственный таймаут.
func (s *EventService) Respond(ctx context.Context, req models.EventRequest) models.EventResult {
	ctx = context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	gen, err := s.generate(ctx, req)
	if err != nil {
		var failure *ProviderFailure
		stage := "unknown"
		if errors.As(err, &failure) {
			stage = failure.Stage
		}
		eventOutcomesTotal.WithLabelValues(outcomeFallback).Inc()
		s.logger.Warn("AI failed to respond correctly, using fallback",
			zap.String("persona", req.Persona.PersonaName),
			zap.String("stage", stage),
			zap.Error(err),
		)
		return models.FallbackEventResult()
	}

	s.logger.Info("Event generated",
		zap.String("persona", req.Persona.PersonaName),
		zap.Int("total_tokens", gen.Usage.TotalTokens),
		zap.Bool("usage_estimated", gen.Usage.Estimated),
	)

	if len(gen.MissingKeys) > 0 {
		eventOutcomesTotal.WithLabelValues(outcomeDefaulted).Inc()
		s.logger.Info("AI reply is missing keys, defaults substituted",
			zap.String("persona", req.Persona.PersonaName),
			zap.Strings("missing", gen.MissingKeys),
		)
	} else {
		eventOutcomesTotal.WithLabelValues(outcomeSuccess).Inc()
	}
	return gen.Result
}

// generate выполняет один запрос к модели. Ошибка всегда имеет тип *ProviderFailure.
func (s *EventService) generate(ctx context.Context, req models.EventRequest) (generation, error) {
	promptText := prompt.BuildEventPromptFor(req)
	s.logger.Debug("Prompt built",
		zap.String("model", s.ai.Model()),
		zap.String("persona", req.Persona.PersonaName),
		zap.String("prompt", promptText),
	)

	raw, usage, err := s.ai.GenerateJSON(ctx, promptText)
	if err != nil {
		return generation{}, &ProviderFailure{Stage: StageGenerate, Err: err}
	}
	s.logger.Debug("Raw AI response received", zap.String("raw", raw))

	result, missing, err := parseEventReply(raw)
	if err != nil {
		return generation{}, &ProviderFailure{Stage: StageParse, Err: err}
	}
	return generation{Result: result, MissingKeys: missing, Usage: usage}, nil
}
