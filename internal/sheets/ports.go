// Package sheets defines the inbound port for invoice data and the
// header-keyed table normalization shared by its adapters.
package sheets

import (
	"context"

	"faturabot/internal/core"
)

// InvoiceReader fetches the full invoice row set from the source of
// truth. Implementations perform exactly one fetch per call and do not
// retry; callers bound the call with the context.
type InvoiceReader interface {
	ListInvoices(ctx context.Context) ([]core.InvoiceRow, error)
}
