package testing

import (
	"context"
)

// MockAssistant is a test double for the Assistant interface
type MockAssistant struct {
	AnswerFunc func(ctx context.Context, question string) (string, error)
}

func (m *MockAssistant) Answer(ctx context.Context, question string) (string, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question)
	}
	return "Mock Answer", nil
}
