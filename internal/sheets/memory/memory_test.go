package memory

import (
	"context"
	"path/filepath"
	"testing"

	"faturabot/internal/core"
)

func TestListInvoicesReturnsCopy(t *testing.T) {
	s := New([]core.InvoiceRow{{Card: "NUBANK", Month: "JAN"}})
	rows, err := s.ListInvoices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows[0].Card = "MUTATED"

	again, _ := s.ListInvoices(context.Background())
	if again[0].Card != "NUBANK" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestNewFromFileMissing(t *testing.T) {
	s := NewFromFile(filepath.Join(t.TempDir(), "absent.csv"))
	rows, err := s.ListInvoices(context.Background())
	if err != nil || len(rows) != 0 {
		t.Fatalf("rows=%v err=%v, want empty store", rows, err)
	}
}

func TestSetError(t *testing.T) {
	s := New(nil)
	s.SetError(context.DeadlineExceeded)
	if _, err := s.ListInvoices(context.Background()); err == nil {
		t.Fatal("expected injected error")
	}
}
