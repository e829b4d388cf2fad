package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"horoscope-api/internal/model"
	"horoscope-api/internal/service"
)

type MoonHandler struct {
	service *service.MoonService
}

func NewMoonHandler(service *service.MoonService) *MoonHandler {
	return &MoonHandler{service: service}
}

func (h *MoonHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, h.service.Current(), nil)
}

func (h *MoonHandler) ForDate(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	day, errD := strconv.Atoi(chi.URLParam(r, "day"))
	if errY != nil || errM != nil || errD != nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	phase, err := h.service.ForDate(year, month, day)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, phase, nil)
}

func (h *MoonHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	if errY != nil || errM != nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	calendar, err := h.service.Calendar(year, month)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, calendar, nil)
}

func (h *MoonHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"upcoming": h.service.Upcoming()}, nil)
}
