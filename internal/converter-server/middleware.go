package converterserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZav1327/currency-converter/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
)

type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

func (h *Handler) generateToken(sessionID string) (string, error) {
	now := time.Now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return tokenString, nil
}

func (h *Handler) verifyToken(accessToken string) (models.SessionInfo, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, ErrInvalidSigningMethod
		}

		return h.secret, nil
	})
	if err != nil {
		return models.SessionInfo{}, fmt.Errorf("%w: jwt.ParseWithClaims: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if ok && token.Valid && claims.SessionID != "" {
		return models.SessionInfo{SessionID: claims.SessionID}, nil
	}

	return models.SessionInfo{}, ErrInvalidToken
}

func (h *Handler) jwtAuth(next http.Handler) http.Handler {
	var fn http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		headerParts := strings.Split(r.Header.Get("Authorization"), " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		sessionInfo, err := h.verifyToken(headerParts[1])
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		r = r.WithContext(context.WithValue(r.Context(), models.SessionInfo{}, sessionInfo))
		next.ServeHTTP(w, r)
	}

	return fn
}

func (h *Handler) metric(next http.Handler) http.Handler {
	var fn http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()

		h.metrics.duration.WithLabelValues(http.StatusText(ww.Status()), r.Method,
			pattern).Observe(time.Since(started).Seconds())
		h.metrics.requests.WithLabelValues(http.StatusText(ww.Status()), r.Method, pattern).Inc()
	}

	return fn
}
