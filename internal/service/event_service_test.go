package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"persona-relay/internal/mocks"
	"persona-relay/internal/models"
	"persona-relay/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mayorLeeRequest() models.EventRequest {
	return models.EventRequest{
		Persona: models.Persona{
			PersonaName: "Mayor Lee",
			PersonaType: "Official",
			Tone:        "firm",
			Urgency:     "high",
			Empathy:     "medium",
			Harshness:   60,
			Description: "A decisive city leader.",
		},
		EventText: "River levels rising fast near downtown.",
	}
}

func newTestService(t *testing.T, timeout time.Duration) (*service.EventService, *mocks.MockAIClient) {
	t.Helper()
	ai := mocks.NewMockAIClient(t)
	ai.On("Model").Return("gemini-2.0-flash").Maybe()
	return service.NewEventService(ai, timeout, zap.NewNop()), ai
}

func TestRespond_MayorLee(t *testing.T) {
	svc, ai := newTestService(t, time.Second)
	req := mayorLeeRequest()

	promptMatcher := mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Mayor Lee") &&
			strings.Contains(p, "60") &&
			strings.Contains(p, req.EventText)
	})
	ai.On("GenerateJSON", mock.Anything, promptMatcher).
		Return(`{"action":"Evacuate downtown now","commentary":"We cannot risk more lives."}`, service.UsageInfo{TotalTokens: 120}, nil).
		Once()

	got := svc.Respond(context.Background(), req)

	assert.Equal(t, models.EventResult{Action: "Evacuate downtown now", Commentary: "We cannot risk more lives."}, got)
	assert.False(t, got.IsFallback())
}

func TestRespond_LogsTokenUsage(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("Model").Return("gemini-2.0-flash").Maybe()
	ai.On("GenerateJSON", mock.Anything, mock.Anything).
		Return(`{"action":"Go","commentary":"Now."}`, service.UsageInfo{PromptTokens: 150, CompletionTokens: 20, TotalTokens: 170, Estimated: true}, nil).
		Once()

	core, logs := observer.New(zapcore.InfoLevel)
	svc := service.NewEventService(ai, time.Second, zap.New(core))

	svc.Respond(context.Background(), mayorLeeRequest())

	entries := logs.FilterMessage("Event generated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 170, fields["total_tokens"])
	assert.Equal(t, true, fields["usage_estimated"])
	assert.Equal(t, "Mayor Lee", fields["persona"])
}

func TestRespond_MissingKeysUseDefaults(t *testing.T) {
	svc, ai := newTestService(t, time.Second)
	ai.On("GenerateJSON", mock.Anything, mock.AnythingOfType("string")).
		Return(`{"commentary":"Hold the line."}`, service.UsageInfo{}, nil).Once()

	got := svc.Respond(context.Background(), mayorLeeRequest())

	assert.Equal(t, models.DefaultAction, got.Action)
	assert.Equal(t, "Hold the line.", got.Commentary)
}

func TestRespond_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
	}{
		{name: "provider error", err: models.ErrAIGenerationFailed},
		{name: "empty response", err: models.ErrEmptyResponse},
		{name: "non-json text", raw: "Evacuate everyone!"},
		{name: "non-object json", raw: `["Evacuate"]`},
		{name: "non-string action", raw: `{"action":7,"commentary":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ai := newTestService(t, time.Second)
			ai.On("GenerateJSON", mock.Anything, mock.Anything).
				Return(tt.raw, service.UsageInfo{}, tt.err).Once()

			got := svc.Respond(context.Background(), mayorLeeRequest())

			assert.Equal(t, models.FallbackEventResult(), got)
			assert.Equal(t, models.FallbackAction, got.Action)
			assert.Equal(t, models.FallbackCommentary, got.Commentary)
		})
	}
}

func TestRespond_IgnoresCallerCancellation(t *testing.T) {
	svc, ai := newTestService(t, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notCanceled := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	ai.On("GenerateJSON", notCanceled, mock.Anything).
		Return(`{"action":"Go","commentary":"Now."}`, service.UsageInfo{}, nil).Once()

	got := svc.Respond(ctx, mayorLeeRequest())

	assert.Equal(t, models.EventResult{Action: "Go", Commentary: "Now."}, got)
}

func TestRespond_TimeoutFallsBack(t *testing.T) {
	svc, ai := newTestService(t, 20*time.Millisecond)

	ai.On("GenerateJSON", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", service.UsageInfo{}, context.DeadlineExceeded).Once()

	start := time.Now()
	got := svc.Respond(context.Background(), mayorLeeRequest())

	assert.True(t, got.IsFallback())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestProviderFailure_Unwrap(t *testing.T) {
	var err error = &service.ProviderFailure{Stage: service.StageParse, Err: models.ErrMalformedReply}

	assert.ErrorIs(t, err, models.ErrMalformedReply)
	assert.Contains(t, err.Error(), "parse")

	var failure *service.ProviderFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, service.StageParse, failure.Stage)
}
