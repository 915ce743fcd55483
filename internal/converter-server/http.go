package converterserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Server struct {
	host    string
	port    int
	Server  *http.Server
	service ConverterService
	log     *logrus.Entry
	handler *Handler
}

func New(host string, port int, service ConverterService, log *logrus.Logger, secret []byte,
	tokenTTL time.Duration,
) *Server {
	h := NewHandler(service, log, secret, tokenTTL)

	server := Server{
		host:    host,
		port:    port,
		service: service,
		log:     log.WithField("module", "http"),
		handler: h,
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Group(func(r chi.Router) {
		r.Use(h.metric)
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log, NoColor: true}))
			r.Post("/sessions", h.createSession)
			r.Get("/currencies", h.getCurrencies)
			r.Get("/history", h.getHistory)
			r.Delete("/history/{index}", h.removeHistory)
			r.Group(func(r chi.Router) {
				r.Use(h.jwtAuth)
				r.Get("/session", h.getSession)
				r.Delete("/session", h.closeSession)
				r.Put("/session/swap", h.swap)
				r.Put("/session/currency", h.selectCurrency)
				r.Post("/session/convert", h.convert)
				r.Get("/session/share", h.share)
				r.Get("/session/notifications", h.getNotifications)
			})
		})
	})

	server.Server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           r,
		ReadHeaderTimeout: 30 * time.Second,
	}

	return &server
}

func (s *Server) Run(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	defer s.log.Info("Server is stopped")

	go func() {
		<-ctx.Done()

		err := s.Server.Shutdown(shutdownCtx)
		if err != nil {
			s.log.Warningf("Server.Shutdown: %s", err)
		}
	}()

	s.log.Infof("Server is running at port %d...", s.port)

	err := s.Server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("Server.ListenAndServe: %w", err)
	}

	return nil
}

func (s *Server) GenerateToken(sessionID string) (string, error) {
	return s.handler.generateToken(sessionID)
}
