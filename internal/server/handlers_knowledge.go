package server

import (
	"fmt"
	"net/http"

	"github.com/jmorgan/ikigai-copilot/internal/server/middleware"
)

// handleKnowledgeUpload ingests an uploaded document into the knowledge
// base.
func (s *Server) handleKnowledgeUpload(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetUserID(r); err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	filename, contentType, data, ok := readUpload(w, r)
	if !ok {
		return
	}

	n, err := s.knowledge.AddDocument(r.Context(), filename, contentType, data)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("ingested %d chunks from %s", n, filename),
	})
}
