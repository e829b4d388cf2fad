package handler

import (
	"net/http"

	"horoscope-api/internal/middleware"
	"horoscope-api/internal/model"
	"horoscope-api/internal/service"
)

type NumerologyHandler struct {
	service *service.NumerologyService
}

func NewNumerologyHandler(service *service.NumerologyService) *NumerologyHandler {
	return &NumerologyHandler{service: service}
}

func (h *NumerologyHandler) Daily(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	reading, err := h.service.Daily(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, reading, nil)
}
