package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "faturabot/internal/log"
	"faturabot/internal/telegram"
)

type capturingHandler struct {
	updates []telegram.Update
}

func (c *capturingHandler) HandleUpdate(_ context.Context, upd telegram.Update) {
	c.updates = append(c.updates, upd)
}

func newTestServer() (*Server, *capturingHandler) {
	h := &capturingHandler{}
	logger := applog.New(slog.LevelError, applog.ComponentHTTP)
	return NewServer(":0", "TESTTOKEN", h, logger), h
}

func TestWebhookDeliversUpdate(t *testing.T) {
	srv, h := newTestServer()
	body := `{"update_id":10,"message":{"message_id":1,"text":"/faturas","chat":{"id":5},"from":{"id":7}}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/TESTTOKEN", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != `{"ok":true}` {
		t.Errorf("body = %q", got)
	}
	if len(h.updates) != 1 {
		t.Fatalf("handler received %d updates, want 1", len(h.updates))
	}
	upd := h.updates[0]
	if upd.Message == nil || upd.Message.Chat.ID != 5 || upd.Message.From.ID != 7 {
		t.Errorf("decoded update = %+v", upd)
	}
}

func TestWebhookNoMessageIsAcknowledged(t *testing.T) {
	srv, h := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/webhook/TESTTOKEN", strings.NewReader(`{"update_id":11}`))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(h.updates) != 1 || h.updates[0].Message != nil {
		t.Errorf("updates = %+v", h.updates)
	}
}

func TestWebhookRejectsMalformedBody(t *testing.T) {
	srv, h := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/webhook/TESTTOKEN", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(h.updates) != 0 {
		t.Errorf("handler invoked for malformed body")
	}
}

func TestWebhookWrongTokenIs404(t *testing.T) {
	srv, _ := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/webhook/WRONG", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer()
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
