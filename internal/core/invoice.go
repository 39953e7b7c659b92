package core

import (
	"errors"
	"strings"
)

// Default labels as used by the spreadsheet this bot was written for.
// All of them are overridable through configuration.
var (
	DefaultCards      = []string{"NUBANK", "SANTANDER", "INTER"}
	DefaultTotalLabel = "TOTAL FINAL"
	DefaultToPayLabel = "A PAGAR"
)

var (
	ErrNoData         = errors.New("no invoice rows for the requested month")
	ErrMissingColumns = errors.New("required columns missing from sheet")
)

// InvoiceRow is one row of the source sheet, immutable once parsed.
// Amounts stay raw here; parsing happens during aggregation so a bad
// cell degrades to zero instead of dropping the row.
type InvoiceRow struct {
	Card            string
	Month           string
	DueDay          string
	Status          string
	TotalRaw        string
	Person          string
	PersonAmountRaw string
}

// Months returns the distinct month labels in first-seen order.
func Months(rows []InvoiceRow) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		m := strings.TrimSpace(r.Month)
		if m == "" {
			continue
		}
		key := strings.ToUpper(m)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

// FilterMonth returns the rows whose month matches label, ignoring case
// and surrounding whitespace.
func FilterMonth(rows []InvoiceRow, label string) []InvoiceRow {
	want := normalizeLabel(label)
	var out []InvoiceRow
	for _, r := range rows {
		if normalizeLabel(r.Month) == want {
			out = append(out, r)
		}
	}
	return out
}

// normalizeLabel collapses case and whitespace so user-typed and
// sheet-side labels compare equal.
func normalizeLabel(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
