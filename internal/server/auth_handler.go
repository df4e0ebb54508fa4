package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		errorJSON(w, http.StatusBadRequest, "validation failed", validationDetail(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		errorJSON(w, HTTPStatus(err), clientMessage(err), nil)
		return
	}

	h.respondWithToken(w, http.StatusCreated, user)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		errorJSON(w, http.StatusBadRequest, "validation failed", validationDetail(err))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		errorJSON(w, HTTPStatus(err), clientMessage(err), nil)
		return
	}

	h.respondWithToken(w, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to generate token", nil)
		return
	}
	writeJSON(w, status, types.AuthResponse{User: user, Token: token})
}
