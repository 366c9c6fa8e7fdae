package handler

import (
	"net/http"

	"storefront-client/internal/domain"
	"storefront-client/internal/middleware"
	"storefront-client/internal/service"
	"storefront-client/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validator.Validate
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WithMessage(w, http.StatusCreated, "User registered successfully. Please login.", user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	loginResp, err := h.authService.Login(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.WithMessage(w, http.StatusOK, "Login successful", loginResp)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshTokenRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	tokenResp, err := h.authService.RefreshToken(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, tokenResp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout(middleware.GetUserID(r))
	response.WithMessage(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(middleware.GetUserID(r))
	if err != nil {
		response.NotFound(w, "User not found")
		return
	}

	response.Success(w, user)
}
