package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"horoscope-api/internal/model"
	"horoscope-api/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrEmailTaken) {
		status = http.StatusConflict
		body.Code = "EMAIL_TAKEN"
		body.Message = "Email already registered"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid credentials"
	} else if errors.Is(err, model.ErrAccountDisabled) {
		status = http.StatusBadRequest
		body.Code = "ACCOUNT_DISABLED"
		body.Message = "Account disabled"
	} else if errors.Is(err, model.ErrGoogleTokenInvalid) ||
		errors.Is(err, model.ErrTokenInvalid) ||
		errors.Is(err, model.ErrTokenExpired) ||
		errors.Is(err, model.ErrRefreshTokenInvalid) ||
		errors.Is(err, model.ErrRefreshTokenExpired) ||
		errors.Is(err, model.ErrUnauthorized) {
		// One body for every token failure; the specific check that failed
		// is not disclosed to the client.
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Invalid or expired token"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	} else if errors.Is(err, model.ErrJournalEntryNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Journal entry not found"
	} else if errors.Is(err, model.ErrUnknownSign) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Unknown zodiac sign"
	} else if errors.Is(err, model.ErrUnknownCard) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Unknown tarot card"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
