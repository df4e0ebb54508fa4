package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// errorBody is the single error shape callers receive. Details carries the
// offending fields for validation failures and is omitted otherwise.
type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorJSON writes an error JSON response
func errorJSON(w http.ResponseWriter, status int, message string, details []string) {
	writeJSON(w, status, errorBody{Error: message, Details: details})
}

// serviceError maps a service-layer error onto the response, with
// validation field details when present.
func serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if details := validationDetail(err); details != nil {
		errorJSON(w, status, "validation failed", details)
		return
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[server] request failed: %v", err)
	}
	errorJSON(w, status, clientMessage(err), nil)
}
