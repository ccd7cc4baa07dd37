// Package chat exposes the question-answering HTTP surface.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// Assistant produces an answer for one question.
type Assistant interface {
	Answer(ctx context.Context, question string) (string, error)
}

type Server struct {
	assistant Assistant
}

func NewServer(assistant Assistant) *Server {
	return &Server{assistant: assistant}
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Ask handles POST /ask: decode the question, run the assistant, return
// the prose answer.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
		return
	}

	answer, err := s.assistant.Answer(ctx, req.Question)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to answer question", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "unable to answer the question right now"})
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{Response: answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
