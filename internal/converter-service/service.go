package converterservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZav1327/currency-converter/internal/converter"
	"github.com/AlexZav1327/currency-converter/internal/history"
	"github.com/AlexZav1327/currency-converter/internal/messages"
	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	noticeFetchFailed   = "Failed to load rates"
	noticeFetching      = "Fetching rates..."
	noticeInvalidInput  = "Enter a valid amount"
	noticeHistoryFailed = "Error updating history"

	maxReapInterval = time.Minute
)

var (
	ErrRatesPending    = errors.New("rates are not loaded yet")
	ErrSessionNotFound = errors.New("no such session")
	ErrNothingToShare  = errors.New("nothing converted yet")
	ErrNotRecorded     = errors.New("conversion was not saved to history")
)

type RateFetcher interface {
	GetLatest(ctx context.Context, base string) (models.ExchangeRateResponse, error)
}

type HistoryStore interface {
	List() []models.HistoryRecord
	Append(ctx context.Context, record models.HistoryRecord) error
	RemoveAt(ctx context.Context, index int) (models.HistoryRecord, error)
}

type Notifier interface {
	Notify(ctx context.Context, sessionID uuid.UUID, message string)
	Drain(sessionID uuid.UUID) []string
}

type Service struct {
	mu           sync.Mutex
	sessions     map[uuid.UUID]models.ConversionSession
	rates        RateFetcher
	history      HistoryStore
	notifier     Notifier
	fetchTimeout time.Duration
	sessionTTL   time.Duration
	fetchCtx     context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	now          func() time.Time
	log          *logrus.Entry
	metrics      *metrics
}

// New starts the service. Sessions expire sessionTTL after creation, the
// same lifetime as their tokens, and are reaped in the background.
func New(rates RateFetcher, history HistoryStore, notifier Notifier, fetchTimeout, sessionTTL time.Duration,
	log *logrus.Logger,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{
		sessions:     make(map[uuid.UUID]models.ConversionSession),
		rates:        rates,
		history:      history,
		notifier:     notifier,
		fetchTimeout: fetchTimeout,
		sessionTTL:   sessionTTL,
		fetchCtx:     ctx,
		cancel:       cancel,
		now:          time.Now,
		log:          log.WithField("module", "service"),
		metrics:      defaultMetrics,
	}

	interval := min(sessionTTL, maxReapInterval)
	if interval <= 0 {
		interval = maxReapInterval
	}

	s.wg.Add(1)

	go s.reapLoop(interval)

	return s
}

// Close cancels in-flight rate fetches and waits for them to return.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Service) CreateSession(_ context.Context) (models.ConversionSession, error) {
	session, err := converter.NewSession(converter.DefaultFrom, converter.DefaultTo)
	if err != nil {
		return models.ConversionSession{}, fmt.Errorf("converter.NewSession: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session.ExpiresAt = s.now().Add(s.sessionTTL)
	session = s.startFetch(session)
	s.sessions[session.ID] = session
	s.metrics.sessions.Inc()

	return session, nil
}

func (s *Service) GetSession(_ context.Context, id uuid.UUID) (models.ConversionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookup(id)
}

func (s *Service) CloseSession(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.lookup(id)
	if err != nil {
		return err
	}

	s.remove(id)

	return nil
}

func (s *Service) Swap(_ context.Context, id uuid.UUID) (models.ConversionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(id)
	if err != nil {
		return models.ConversionSession{}, err
	}

	session = s.startFetch(converter.Swap(session))
	s.sessions[id] = session

	return session, nil
}

func (s *Service) SelectCurrency(_ context.Context, id uuid.UUID, side models.Side, code string) (
	models.ConversionSession, error,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(id)
	if err != nil {
		return models.ConversionSession{}, err
	}

	session, refetch, err := converter.SelectCurrency(session, side, code)
	if err != nil {
		return models.ConversionSession{}, fmt.Errorf("converter.SelectCurrency: %w", err)
	}

	if refetch {
		session = s.startFetch(session)
	}

	s.sessions[id] = session

	return session, nil
}

// Convert converts amount from the session base into its target currency.
// While rates are pending it starts a fetch if none is running and returns
// ErrRatesPending instead of waiting. With save set the result is recorded
// in history; a failed write still returns the conversion, wrapped in
// ErrNotRecorded.
func (s *Service) Convert(ctx context.Context, id uuid.UUID, amount string, save bool) (models.Conversion, error) {
	conversion, err := s.convert(ctx, id, amount)
	if err != nil || !save {
		return conversion, err
	}

	record := models.HistoryRecord{
		FromCode:   conversion.FromCode,
		ToCode:     conversion.ToCode,
		FromAmount: conversion.Amount,
		ToAmount:   conversion.Result,
		Date:       history.DateLabel(s.now()),
	}

	err = s.history.Append(ctx, record)
	if err != nil {
		s.log.Warningf("history.Append: %s", err)
		s.notifier.Notify(ctx, id, noticeHistoryFailed)

		return conversion, fmt.Errorf("%w: history.Append: %w", ErrNotRecorded, err)
	}

	s.metrics.historyRecords.Inc()

	return conversion, nil
}

func (s *Service) convert(ctx context.Context, id uuid.UUID, amount string) (models.Conversion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(id)
	if err != nil {
		return models.Conversion{}, err
	}

	conversion, err := converter.Convert(session, amount, session.To)
	if errors.Is(err, converter.ErrNoRatesLoaded) {
		if session.RequestID == uuid.Nil {
			session = s.startFetch(session)
			s.sessions[id] = session
		}

		s.notifier.Notify(ctx, id, noticeFetching)
		s.metrics.conversions.WithLabelValues("pending").Inc()

		return models.Conversion{}, ErrRatesPending
	}

	if err != nil {
		s.metrics.conversions.WithLabelValues("rejected").Inc()
		s.notifyConvertError(ctx, id, session.To, err)

		return models.Conversion{}, fmt.Errorf("converter.Convert: %w", err)
	}

	session.LastResult = &conversion
	s.sessions[id] = session
	s.metrics.conversions.WithLabelValues("ok").Inc()

	return conversion, nil
}

func (s *Service) Share(_ context.Context, id uuid.UUID, detailed bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(id)
	if err != nil {
		return "", err
	}

	if session.LastResult == nil {
		return "", ErrNothingToShare
	}

	if detailed {
		return messages.ShareDetails(*session.LastResult), nil
	}

	return messages.ShareText(*session.LastResult), nil
}

func (s *Service) Notifications(_ context.Context, id uuid.UUID) ([]string, error) {
	s.mu.Lock()
	_, err := s.lookup(id)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return s.notifier.Drain(id), nil
}

func (s *Service) GetHistory(_ context.Context) []models.HistoryRecord {
	return s.history.List()
}

func (s *Service) RemoveHistory(ctx context.Context, index int) (models.HistoryRecord, error) {
	record, err := s.history.RemoveAt(ctx, index)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("history.RemoveAt: %w", err)
	}

	return record, nil
}

func (s *Service) notifyConvertError(ctx context.Context, id uuid.UUID, to string, err error) {
	switch {
	case errors.Is(err, converter.ErrInvalidAmount):
		s.notifier.Notify(ctx, id, noticeInvalidInput)
	case errors.Is(err, converter.ErrRateNotFound):
		s.notifier.Notify(ctx, id, "Rate not found for "+to)
	default:
		s.notifier.Notify(ctx, id, "Conversion Error: "+err.Error())
	}
}

// lookup returns a live session, dropping it if it has expired. Must be
// called with mu held.
func (s *Service) lookup(id uuid.UUID) (models.ConversionSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return models.ConversionSession{}, ErrSessionNotFound
	}

	if !s.now().Before(session.ExpiresAt) {
		s.remove(id)

		return models.ConversionSession{}, ErrSessionNotFound
	}

	return session, nil
}

// remove must be called with mu held.
func (s *Service) remove(id uuid.UUID) {
	delete(s.sessions, id)
	s.notifier.Drain(id)
	s.metrics.sessions.Dec()
}

func (s *Service) reapLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.fetchCtx.Done():
			return
		case <-ticker.C:
			s.reapExpired()
		}
	}
}

func (s *Service) reapExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	reaped := 0

	for id, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			s.remove(id)
			reaped++
		}
	}

	if reaped > 0 {
		s.log.Debugf("reaped %d expired sessions", reaped)
	}

	return reaped
}

// startFetch issues a rate request for the current base of session and
// returns the session tagged with the request. Must be called with mu held.
func (s *Service) startFetch(session models.ConversionSession) models.ConversionSession {
	requestID := uuid.New()
	session.RequestID = requestID

	id, base := session.ID, session.From

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(s.fetchCtx, s.fetchTimeout)
		defer cancel()

		resp, err := s.rates.GetLatest(ctx, base)
		s.applyRates(id, requestID, base, resp, err)
	}()

	return session
}

func (s *Service) applyRates(id, requestID uuid.UUID, base string, resp models.ExchangeRateResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return
	}

	// A newer request or an already applied answer supersedes this one.
	if session.RequestID != requestID {
		s.metrics.staleRates.Inc()
		s.log.Debugf("dropped %s rates for session %s now based on %s", base, id, session.From)

		return
	}

	session.RequestID = uuid.Nil

	if err == nil && resp.Base != base {
		err = fmt.Errorf("response base %s does not match requested %s", resp.Base, base)
	}

	if err != nil {
		s.sessions[id] = session
		s.metrics.fetches.WithLabelValues("failed").Inc()
		s.log.Warningf("rates.GetLatest(%s): %s", base, err)

		if s.fetchCtx.Err() == nil {
			s.notifier.Notify(s.fetchCtx, id, noticeFetchFailed)
		}

		return
	}

	updated, err := converter.SetRates(session, base, resp.Rates)
	if err != nil {
		s.sessions[id] = session
		s.metrics.staleRates.Inc()
		s.log.Debugf("converter.SetRates: %s", err)

		return
	}

	s.sessions[id] = updated
	s.metrics.fetches.WithLabelValues("ok").Inc()
}
