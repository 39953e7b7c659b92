// Package csvsource reads invoice rows from a published CSV endpoint,
// the "File > Share > Publish to web" flavor of a spreadsheet.
package csvsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"faturabot/internal/core"
	ports "faturabot/internal/sheets"
)

const (
	fetchTimeout = 10 * time.Second
	maxBodySize  = 4 << 20 // published invoice sheets are tiny; 4MB is already generous
)

type Client struct {
	url        string
	httpClient *http.Client
}

var _ ports.InvoiceReader = (*Client)(nil)

func New(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// ListInvoices performs a single GET against the configured URL and
// normalizes the body. Non-2xx responses and transport failures are
// returned as-is; the caller decides how to surface them.
func (c *Client) ListInvoices(ctx context.Context) ([]core.InvoiceRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build csv request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch csv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch csv: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read csv body: %w", err)
	}
	rows, err := ports.RowsFromCSV(data)
	if err != nil {
		return nil, fmt.Errorf("normalize csv: %w", err)
	}
	return rows, nil
}
