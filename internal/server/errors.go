// Package server provides the HTTP REST API for the career copilot.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jmorgan/ikigai-copilot/internal/db"
	"github.com/jmorgan/ikigai-copilot/internal/knowledge"
	"github.com/jmorgan/ikigai-copilot/internal/llm"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps an error to its HTTP status code. Model-output failures
// map to 502 because the upstream call succeeded but produced unusable
// data; store not-found maps to 404.
func HTTPStatus(err error) int {
	var verrs validator.ValidationErrors
	var moe *llm.ModelOutputError
	var ute *knowledge.UnsupportedTypeError

	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.As(err, &ute):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &moe):
		return http.StatusBadGateway
	case db.IsNotFound(err):
		return http.StatusNotFound
	}

	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the error text safe to echo to the caller. Raw
// model output and internal wrap chains stay out of responses for model
// and server failures.
func clientMessage(err error) string {
	status := HTTPStatus(err)
	switch status {
	case http.StatusBadGateway:
		return "invalid AI output"
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}

// validationDetail lists the offending fields for a validation failure.
func validationDetail(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		fields = append(fields, fmt.Sprintf("%s: %s", ve.Field(), ve.Tag()))
	}
	return fields
}
