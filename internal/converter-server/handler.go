package converterserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AlexZav1327/currency-converter/internal/catalog"
	"github.com/AlexZav1327/currency-converter/internal/converter"
	converterservice "github.com/AlexZav1327/currency-converter/internal/converter-service"
	"github.com/AlexZav1327/currency-converter/internal/history"
	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service  ConverterService
	log      *logrus.Entry
	metrics  *metrics
	secret   []byte
	tokenTTL time.Duration
}

type ConverterService interface {
	CreateSession(ctx context.Context) (models.ConversionSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (models.ConversionSession, error)
	CloseSession(ctx context.Context, id uuid.UUID) error
	Swap(ctx context.Context, id uuid.UUID) (models.ConversionSession, error)
	SelectCurrency(ctx context.Context, id uuid.UUID, side models.Side, code string) (models.ConversionSession, error)
	Convert(ctx context.Context, id uuid.UUID, amount string, save bool) (models.Conversion, error)
	Share(ctx context.Context, id uuid.UUID, detailed bool) (string, error)
	Notifications(ctx context.Context, id uuid.UUID) ([]string, error)
	GetHistory(ctx context.Context) []models.HistoryRecord
	RemoveHistory(ctx context.Context, index int) (models.HistoryRecord, error)
}

func NewHandler(service ConverterService, log *logrus.Logger, secret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{
		service:  service,
		log:      log.WithField("module", "handler"),
		metrics:  defaultMetrics,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CreateSession(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	token, err := h.generateToken(session.ID.String())
	if err != nil {
		h.log.Warningf("generateToken: %s", err)
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	h.writeJSON(w, http.StatusCreated, models.ResponseNewSession{
		Session: sessionView(session),
		Token:   token,
	})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.getSessionID(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)

		return
	}

	session, err := h.service.GetSession(r.Context(), id)
	if errors.Is(err, converterservice.ErrSessionNotFound) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	h.writeJSON(w, http.StatusOK, sessionView(session))
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.getSessionID(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)

		return
	}

	err := h.service.CloseSession(r.Context(), id)
	if errors.Is(err, converterservice.ErrSessionNotFound) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) swap(w http.ResponseWriter, r *http.Request) {
	id, ok := h.getSessionID(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)

		return
	}

	session, err := h.service.Swap(r.Context(), id)
	if errors.Is(err, converterservice.ErrSessionNotFound) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	h.writeJSON(w, http.StatusOK, sessionView(session))
}

func (h *Handler) selectCurrency(w http.ResponseWriter, r *http.Request) {
	id, ok := h.getSessionID(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)

		return
	}

	var req models.RequestSelectCurrency

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	session, err := h.service.SelectCurrency(r.Context(), id, req.Side, req.Code)
	if errors.Is(err, converterservice.ErrSessionNotFound) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if errors.Is(err, converter.ErrInvalidSide) || errors.Is(err, converter.ErrInvalidCurrency) {
		w.WriteHeader(http.StatusUnprocessableEntity)

		return
	}

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	h.writeJSON(w, http.StatusOK, sessionView(session))
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	id, ok := h.getSessionID(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)

		return
	}

	var req models.RequestConvert

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	conversion, err := h.service.Convert(r.Context(), id, req.Amount, req.Save)
	if errors.Is(err, converterservice.ErrSessionNotFound) || errors.Is(err, converter.ErrRateNotFound) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if errors.Is(err, converterservice.ErrRatesPending) {
		w.WriteHeader(http.StatusAccepted)

		return
	}

	if errors.Is(err, converter.ErrInvalidAmount) {
		w.WriteHeader(http.StatusUnprocessableEntity)

		return
	}

	// The session already carries a notice about the unsaved record.
	if errors.Is(err, converterservice.ErrNotRecorded) {
		h.log.Warningf("service.Convert: %s", err)
	} else if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	h.writeJSON(w, http.StatusOK, models.ResponseConversion{
		FromCode:   conversion.FromCode,
		ToCode:     conversion.ToCode,
		Amount:     conversion.Amount,
		Result:     conversion.Result,
		Rate:       conversion.Rate,
		ResultText: converter.FormatResult(conversion),
		RateText:   converter.FormatRate(conversion),
	})
}

func (h *Handler) share(w http.ResponseWriter, r *http.Request) {
	id, ok := h.getSessionID(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)

		return
	}

	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	text, err := h.service.Share(r.Context(), id, detailed)
	if errors.Is(err, converterservice.ErrSessionNotFound) || errors.Is(err, converterservice.ErrNothingToShare) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	_, err = w.Write([]byte(text))
	if err != nil {
		h.log.Warningf("w.Write: %s", err)
	}
}

func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	id, ok := h.getSessionID(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)

		return
	}

	notes, err := h.service.Notifications(r.Context(), id)
	if errors.Is(err, converterservice.ErrSessionNotFound) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	resp := make([]models.ResponseNotification, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, models.ResponseNotification{Message: n})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getCurrencies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, catalog.Filter(r.URL.Query().Get("query")))
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.GetHistory(r.Context()))
}

func (h *Handler) removeHistory(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	_, err = h.service.RemoveHistory(r.Context(), index)
	if errors.Is(err, history.ErrIndexOutOfRange) {
		w.WriteHeader(http.StatusNotFound)

		return
	}

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getSessionID(r *http.Request) (uuid.UUID, bool) {
	sessionInfo, ok := r.Context().Value(models.SessionInfo{}).(models.SessionInfo)
	if !ok {
		h.log.Warning("err invalid context value")

		return uuid.Nil, false
	}

	id, err := uuid.Parse(sessionInfo.SessionID)
	if err != nil {
		h.log.Warningf("uuid.Parse: %s", err)

		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.log.Warningf("json.NewEncoder.Encode: %s", err)
	}
}

func sessionView(session models.ConversionSession) models.ResponseSession {
	return models.ResponseSession{
		SessionID: session.ID.String(),
		From:      catalog.View(session.From),
		To:        catalog.View(session.To),
		State:     session.State,
	}
}
