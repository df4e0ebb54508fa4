package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jmorgan/ikigai-copilot/internal/profile"
	"github.com/jmorgan/ikigai-copilot/internal/server/middleware"
	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// maxUploadBytes bounds multipart uploads (pictures, resumes, knowledge
// documents).
const maxUploadBytes = 10 << 20

// handleGetProfile returns the caller's profile. A user who has never
// saved one gets an empty object, not a 404.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	p, err := s.profiles.Get(r.Context(), userID.String())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdateProfile merges the supplied fields into the stored profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var patch types.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	updated, err := s.profiles.Update(r.Context(), userID.String(), patch)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleUploadPicture(w http.ResponseWriter, r *http.Request) {
	s.handleProfileUpload(w, r, profile.FilePicture, "profilePictureUrl")
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	s.handleProfileUpload(w, r, profile.FileResume, "resumePath")
}

// handleProfileUpload reads the multipart "file" part and hands it to the
// profile service.
func (s *Server) handleProfileUpload(w http.ResponseWriter, r *http.Request, kind profile.FileKind, responseField string) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	filename, contentType, data, ok := readUpload(w, r)
	if !ok {
		return
	}

	location, err := s.profiles.UploadFile(r.Context(), userID.String(), kind, filename, contentType, data)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{responseField: location})
}

// readUpload extracts the "file" part from a multipart request. On failure
// it writes the error response and returns ok=false.
func readUpload(w http.ResponseWriter, r *http.Request) (filename, contentType string, data []byte, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid multipart request", nil)
		return "", "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "missing file field", nil)
		return "", "", nil, false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "failed to read upload", nil)
		return "", "", nil, false
	}

	return header.Filename, header.Header.Get("Content-Type"), data, true
}
