package xrserver

import (
	"encoding/json"
	"errors"
	"net/http"

	xrservice "github.com/AlexZav1327/currency-converter/internal/xr-service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service RateService
	log     *logrus.Entry
}

func NewHandler(service RateService, log *logrus.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.WithField("module", "xr_handler"),
	}
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) {
	base := chi.URLParam(r, "base")

	resp, err := h.service.GetLatest(base)
	if errors.Is(err, xrservice.ErrWrongCurrency) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err = json.NewEncoder(w).Encode(resp)
	if err != nil {
		h.log.Warningf("json.NewEncoder.Encode: %s", err)
	}
}
