// Package memory is an in-process InvoiceReader used in tests and for
// local development without sheet credentials.
package memory

import (
	"context"
	"os"
	"sync"

	"faturabot/internal/core"
	ports "faturabot/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []core.InvoiceRow
	err  error
}

var _ ports.InvoiceReader = (*Store)(nil)

func New(rows []core.InvoiceRow) *Store {
	return &Store{rows: rows}
}

// NewFromFile seeds the store from a local CSV file with the same
// layout as the published sheet. A missing file yields an empty store.
func NewFromFile(path string) *Store {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Store{}
	}
	rows, err := ports.RowsFromCSV(data)
	if err != nil {
		return &Store{err: err}
	}
	return &Store{rows: rows}
}

func (s *Store) ListInvoices(_ context.Context) ([]core.InvoiceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]core.InvoiceRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// SetError makes every subsequent ListInvoices fail with err. Tests
// use it to exercise fetch-failure paths.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
