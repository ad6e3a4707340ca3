package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"dinarex/internal/auth"
	dinarexerrors "dinarex/pkg/errors"
	"dinarex/pkg/logger"
	"dinarex/pkg/validator"
)

type AuthHandler struct {
	service   *auth.Service
	validator *validator.Validator
	logger    logger.Logger
}

func NewAuthHandler(service *auth.Service, val *validator.Validator, log logger.Logger) *AuthHandler {
	return &AuthHandler{service: service, validator: val, logger: log}
}

// Login issues a staff bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := h.validator.ValidateStructured(&req); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, dinarexerrors.ErrTOTPRequired):
			respondError(w, http.StatusUnauthorized, "TOTP code required")
		case errors.Is(err, dinarexerrors.ErrTOTPInvalid),
			errors.Is(err, dinarexerrors.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.logger.Error("Login failed", map[string]interface{}{"error": err.Error()})
			respondError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
