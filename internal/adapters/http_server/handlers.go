package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"tripchat/internal/app"
	"tripchat/internal/domain"
)

type Handlers struct{ Chat *app.ChatService }

type chatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
	User     *struct {
		ID string `json:"_id"`
	} `json:"user,omitempty"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type historyResponse struct {
	Messages []domain.Message `json:"messages"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/chat", h.postChat)
	s.mux.Get("/chat/history", h.getHistory)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Message: msg}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	user := domain.AnonymousUser()
	if req.User != nil && req.User.ID != "" {
		user = domain.IdentifiedUser(req.User.ID)
	}

	reply, err := h.Chat.Handle(r.Context(), user, req.Message, req.Language)
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			writeError(w, http.StatusInternalServerError, "assistant is temporarily unavailable, please try again")
			return
		}
		log.Error().Err(err).Msg("chat turn failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

func (h *Handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	user := resolveUser(r)

	msgs, err := h.Chat.History(r.Context(), user)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Error().Err(err).Msg("load chat history failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Messages: msgs})
}

// resolveUser picks the identity for history reads: X-User-ID header first,
// then the user query param; everything else lands in the anonymous bucket.
func resolveUser(r *http.Request) domain.UserKey {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return domain.IdentifiedUser(id)
	}
	if id := strings.TrimSpace(r.URL.Query().Get("user")); id != "" {
		return domain.IdentifiedUser(id)
	}
	return domain.AnonymousUser()
}
