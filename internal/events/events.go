// Package events publishes report-delivery events for consumers that
// track bot usage. Publishing is best effort: the user already has the
// report by the time an event goes out.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// ReportSent describes one successfully delivered invoice report.
type ReportSent struct {
	ChatID    int64     `json:"chat_id"`
	Month     string    `json:"month"`
	Cards     int       `json:"cards"`
	Timestamp time.Time `json:"timestamp"`
}

func (e ReportSent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher emits report events. Failures are for the caller to log,
// never to surface to the chat.
type Publisher interface {
	PublishReportSent(ctx context.Context, ev ReportSent) error
	Close() error
}

// Noop discards every event; used when no broker is configured.
type Noop struct{}

func (Noop) PublishReportSent(context.Context, ReportSent) error { return nil }
func (Noop) Close() error                                        { return nil }
