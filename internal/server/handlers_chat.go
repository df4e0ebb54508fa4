package server

import (
	"encoding/json"
	"net/http"

	"github.com/jmorgan/ikigai-copilot/internal/server/middleware"
	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// handleCreateSession starts a new chat session for the caller.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	sessionID, err := s.sessions.CreateSession(r.Context(), userID.String())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": sessionID})
}

// handleListSessions returns the caller's sessions, most recently updated
// first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	sessions, err := s.sessions.ListSessions(r.Context(), userID.String())
	if err != nil {
		serviceError(w, err)
		return
	}
	if sessions == nil {
		sessions = []types.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleListSessionMessages returns a session's messages in creation order.
func (s *Server) handleListSessionMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	sessionID := r.PathValue("session_id")

	exists, err := s.sessions.SessionExists(r.Context(), userID.String(), sessionID)
	if err != nil {
		serviceError(w, err)
		return
	}
	if !exists {
		errorJSON(w, http.StatusNotFound, "session not found", nil)
		return
	}

	messages, err := s.sessions.ListMessages(r.Context(), userID.String(), sessionID)
	if err != nil {
		serviceError(w, err)
		return
	}
	if messages == nil {
		messages = []types.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// handleChatMessage runs the chat pipeline for one user turn and returns
// the AI reply.
func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	sessionID := r.PathValue("session_id")

	exists, err := s.sessions.SessionExists(r.Context(), userID.String(), sessionID)
	if err != nil {
		serviceError(w, err)
		return
	}
	if !exists {
		errorJSON(w, http.StatusNotFound, "session not found", nil)
		return
	}

	var input types.ChatInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	reply, err := s.chat.HandleChatMessage(r.Context(), userID.String(), sessionID, input)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
