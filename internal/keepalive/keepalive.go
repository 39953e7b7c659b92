// Package keepalive pings the service's own public URL on a fixed
// interval so free-tier hosts do not put the process to sleep.
package keepalive

import (
	"context"
	"net/http"
	"time"

	applog "faturabot/internal/log"
)

type Pinger struct {
	url        string
	interval   time.Duration
	httpClient *http.Client
	logger     *applog.Logger
}

func New(url string, interval time.Duration, logger *applog.Logger) *Pinger {
	return &Pinger{
		url:        url,
		interval:   interval,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Run pings until the context is cancelled. Failures are logged and
// never propagated; a dead ping target must not take the bot down.
func (p *Pinger) Run(ctx context.Context) error {
	if p.url == "" {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.ping(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Warn("build keepalive request", applog.FieldError, err)
		return
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("keepalive ping failed", applog.FieldError, err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Warn("keepalive ping unexpected status", applog.FieldStatus, resp.StatusCode)
		return
	}
	p.logger.Debug("keepalive ping ok")
}
