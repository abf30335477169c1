package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"STOREFRONT_BACK-END/internal/logger"
	"STOREFRONT_BACK-END/internal/services"
	"STOREFRONT_BACK-END/internal/utils"
)

// writeServiceError maps service errors onto HTTP responses
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	var active *services.ResetCodeActiveError

	switch {
	case errors.As(err, &verr):
		utils.WriteValidationResponse(w, "Request validation failed", verr.Fields)
	case errors.As(err, &active):
		w.Header().Set("Retry-After", strconv.Itoa(int(active.RetryAfter.Seconds())+1))
		utils.WriteErrorResponse(w, http.StatusTooManyRequests, "Code already sent", active.Error())
	case errors.Is(err, services.ErrEmailTaken):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Email already registered", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Incorrect email or password")
	case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrInvalidResetCode):
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, services.ErrWebsiteNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Website not found", err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", err.Error())
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

// writeBadRequest reports a body that could not be decoded
func writeBadRequest(w http.ResponseWriter, err error) {
	utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
}
