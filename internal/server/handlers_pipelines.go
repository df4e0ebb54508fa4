package server

import (
	"encoding/json"
	"net/http"

	"github.com/jmorgan/ikigai-copilot/internal/server/middleware"
	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// handleRecommendation runs the recommendation pipeline and returns the
// persisted result with its new session id.
func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var input types.IkigaiInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	sessionID, rec, err := s.recommend.Recommend(r.Context(), userID.String(), input)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId":      sessionID,
		"recommendation": rec,
	})
}

// handleJobSearch runs the job-search pipeline for the caller's search
// phrase.
func (s *Server) handleJobSearch(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var input types.JobSearchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	result, err := s.jobs.Search(r.Context(), userID.String(), input)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCreateRoadmap generates and persists a roadmap for a target job.
func (s *Server) handleCreateRoadmap(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var job types.JobDetails
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	rm, err := s.roadmaps.CreateRoadmapForJob(r.Context(), userID.String(), job)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"roadmapId":  rm.ID,
		"jobDetails": rm.JobDetails,
		"roadmap":    rm.Roadmap,
	})
}

// handleGetRoadmap returns one roadmap with its completion state.
func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	rm, err := s.roadmaps.GetRoadmap(r.Context(), userID.String(), r.PathValue("roadmap_id"))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

// handleUpdateRoadmapTask toggles one task's completion state.
func (s *Server) handleUpdateRoadmapTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var update types.RoadmapUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := s.roadmaps.UpdateTaskStatus(r.Context(), userID.String(), r.PathValue("roadmap_id"), update); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task status updated"})
}
