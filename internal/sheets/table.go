package sheets

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"faturabot/internal/core"
)

// Canonical header names of the invoice sheet. Matching is case- and
// whitespace-insensitive; PESSOA and VALOR PESSOA are optional.
const (
	headerCard         = "CARTÃO"
	headerMonth        = "MÊS"
	headerDueDay       = "D. VENC"
	headerTotal        = "TOTAL"
	headerStatus       = "SITUAÇÃO"
	headerPerson       = "PESSOA"
	headerPersonAmount = "VALOR PESSOA"
)

// RowsFromValues converts a values matrix, as returned by the Sheets
// API, into invoice rows. The first line is the header.
func RowsFromValues(values [][]any) ([]core.InvoiceRow, error) {
	records := make([][]string, 0, len(values))
	for _, row := range values {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = fmt.Sprint(cell)
		}
		records = append(records, rec)
	}
	return rowsFromRecords(records)
}

// RowsFromCSV converts raw delimited text, as served by a published
// sheet, into invoice rows. The first line is the header.
func RowsFromCSV(data []byte) ([]core.InvoiceRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // rows shorter than the header are tolerated

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, rec)
	}
	return rowsFromRecords(records)
}

type columns struct {
	card, month, dueDay, total, status int
	person, personAmount               int
}

func rowsFromRecords(records [][]string) ([]core.InvoiceRow, error) {
	if len(records) == 0 {
		return nil, nil
	}
	cols, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	var rows []core.InvoiceRow
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		rows = append(rows, core.InvoiceRow{
			Card:            cell(rec, cols.card),
			Month:           cell(rec, cols.month),
			DueDay:          cell(rec, cols.dueDay),
			Status:          cell(rec, cols.status),
			TotalRaw:        cell(rec, cols.total),
			Person:          cell(rec, cols.person),
			PersonAmountRaw: cell(rec, cols.personAmount),
		})
	}
	return rows, nil
}

// mapHeader resolves canonical column names to indexes. Missing
// required columns are a sheet-format error listing every absentee, so
// a misconfigured sheet is reported in one pass.
func mapHeader(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	lookup := func(name string) int {
		if i, ok := idx[normalizeHeader(name)]; ok {
			return i
		}
		return -1
	}

	cols := columns{
		card:         lookup(headerCard),
		month:        lookup(headerMonth),
		dueDay:       lookup(headerDueDay),
		total:        lookup(headerTotal),
		status:       lookup(headerStatus),
		person:       lookup(headerPerson),
		personAmount: lookup(headerPersonAmount),
	}

	var missing []string
	for _, req := range []struct {
		name string
		col  int
	}{
		{headerCard, cols.card},
		{headerMonth, cols.month},
		{headerDueDay, cols.dueDay},
		{headerTotal, cols.total},
		{headerStatus, cols.status},
	} {
		if req.col == -1 {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", core.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}

func normalizeHeader(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
