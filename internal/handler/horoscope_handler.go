package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"horoscope-api/internal/service"
	"horoscope-api/internal/zodiac"
)

type HoroscopeHandler struct {
	service *service.HoroscopeService
}

func NewHoroscopeHandler(service *service.HoroscopeService) *HoroscopeHandler {
	return &HoroscopeHandler{service: service}
}

func (h *HoroscopeHandler) Signs(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, zodiac.All(), nil)
}

func (h *HoroscopeHandler) Daily(w http.ResponseWriter, r *http.Request) {
	signID := chi.URLParam(r, "sign_id")
	day := r.URL.Query().Get("day")

	horoscope, err := h.service.Daily(signID, day)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, horoscope, nil)
}

func (h *HoroscopeHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	signID := chi.URLParam(r, "sign_id")

	horoscope, err := h.service.Weekly(signID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, horoscope, nil)
}

func (h *HoroscopeHandler) Compatibility(w http.ResponseWriter, r *http.Request) {
	sign1 := chi.URLParam(r, "sign1_id")
	sign2 := chi.URLParam(r, "sign2_id")

	compat, err := h.service.Compatibility(sign1, sign2)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, compat, nil)
}
