package mocks

import (
	"context"

	"persona-relay/internal/handler"
	"persona-relay/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockEventResponder is a mock type for the EventResponder type
type MockEventResponder struct {
	mock.Mock
}

// Respond provides a mock function with given fields: ctx, req
func (_m *MockEventResponder) Respond(ctx context.Context, req models.EventRequest) models.EventResult {
	ret := _m.Called(ctx, req)

	var r0 models.EventResult
	if rf, ok := ret.Get(0).(func(context.Context, models.EventRequest) models.EventResult); ok {
		r0 = rf(ctx, req)
	} else {
		r0 = ret.Get(0).(models.EventResult)
	}

	return r0
}

// NewMockEventResponder creates a new instance of MockEventResponder. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockEventResponder(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventResponder {
	m := &MockEventResponder{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ handler.EventResponder = (*MockEventResponder)(nil)
