package handler

import (
	"encoding/json"
	"net/http"

	"horoscope-api/internal/middleware"
	"horoscope-api/internal/model"
	"horoscope-api/internal/service"
	"horoscope-api/pkg/apierror"
)

type SubscriptionHandler struct {
	service *service.SubscriptionService
}

func NewSubscriptionHandler(service *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	status, err := h.service.Status(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, status, nil)
}

// Webhook receives RevenueCat server notifications. It is mounted
// without auth; RevenueCat is the caller, not the app.
func (h *SubscriptionHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RevenueCatWebhook
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	result, err := h.service.HandleWebhook(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *SubscriptionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	var payload model.RestorePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.Restore(r.Context(), claims.UserID, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"linked":  true,
		"message": "RevenueCat ID linked. Subscription will sync via webhook.",
	}, nil)
}
