// Package httpapi exposes the Telegram webhook endpoint and the
// health probes.
package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	applog "faturabot/internal/log"
	"faturabot/internal/telegram"
)

// UpdateHandler consumes one decoded webhook update. It must not fail:
// the webhook acknowledges every well-formed request so Telegram does
// not redeliver.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd telegram.Update)
}

type Server struct {
	http.Server
	handler UpdateHandler
	logger  *applog.Logger
}

// NewServer wires the webhook route. The path embeds the bot token,
// Telegram's recommended way of keeping the endpoint unguessable.
func NewServer(addr, botToken string, handler UpdateHandler, logger *applog.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		handler: handler,
		logger:  logger,
	}

	mux.HandleFunc("POST /webhook/"+botToken, s.withRequestLog(s.handleWebhook))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	return s
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.logger.ErrorContext(r.Context(), "decode webhook payload", applog.FieldError, err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.handler.HandleUpdate(r.Context(), upd)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// withRequestLog tags each request with an id and logs start and
// completion with timing.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "request started",
			applog.FieldRequestID, requestID,
			"method", r.Method)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "request completed",
			applog.FieldRequestID, requestID,
			applog.FieldStatus, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}
