package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/atlasgrove/climascope/internal/chat/testing"
)

func TestServer_Ask(t *testing.T) {
	t.Run("answers a question", func(t *testing.T) {
		mockAssist := &MockAssistant{
			AnswerFunc: func(ctx context.Context, question string) (string, error) {
				if question != "How warm was Texas in March?" {
					t.Errorf("question = %q", question)
				}
				return "Pleasantly warm, around 20°C on average.", nil
			},
		}
		srv := NewServer(mockAssist)

		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"How warm was Texas in March?"}`))
		rec := httptest.NewRecorder()
		srv.Ask(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var out AskResponse
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if out.Response != "Pleasantly warm, around 20°C on average." {
			t.Errorf("Response = %q", out.Response)
		}
	})

	t.Run("rejects an empty question", func(t *testing.T) {
		srv := NewServer(&MockAssistant{})

		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"  "}`))
		rec := httptest.NewRecorder()
		srv.Ask(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		srv := NewServer(&MockAssistant{})

		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		srv.Ask(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("assistant failures are a 500", func(t *testing.T) {
		mockAssist := &MockAssistant{
			AnswerFunc: func(ctx context.Context, question string) (string, error) {
				return "", errors.New("model unavailable")
			},
		}
		srv := NewServer(mockAssist)

		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question":"anything"}`))
		rec := httptest.NewRecorder()
		srv.Ask(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}
