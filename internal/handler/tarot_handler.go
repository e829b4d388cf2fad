package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"horoscope-api/internal/middleware"
	"horoscope-api/internal/model"
	"horoscope-api/internal/service"
	"horoscope-api/pkg/apierror"
)

type TarotHandler struct {
	service *service.TarotService
}

func NewTarotHandler(service *service.TarotService) *TarotHandler {
	return &TarotHandler{service: service}
}

func (h *TarotHandler) Cards(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Cards(), nil)
}

func (h *TarotHandler) Draw(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	// An empty body means a single-card draw.
	var payload model.TarotDrawRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err != io.EOF {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	drawn, err := h.service.Draw(r.Context(), claims.UserID, payload.Spread)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, drawn, nil)
}

func (h *TarotHandler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 0)

	readings, meta, err := h.service.History(r.Context(), claims.UserID, offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, readings, meta)
}
