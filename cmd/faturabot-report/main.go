// faturabot-report prints the invoice report for a month to stdout,
// using the same source configuration as the bot. Handy for checking
// the sheet without going through Telegram.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"faturabot/internal/config"
	"faturabot/internal/core"
	applog "faturabot/internal/log"
	"faturabot/internal/sheets"
	"faturabot/internal/sheets/csvsource"
	"faturabot/internal/sheets/google"
	"faturabot/internal/sheets/memory"
)

func main() {
	_ = godotenv.Load()

	month := flag.String("month", "", "month label to report on (empty lists available months)")
	flag.Parse()

	cfg := config.Load()
	logger := applog.New(applog.ParseLevel(cfg.LogLevel), applog.ComponentApp)
	applog.SetDefault(logger)

	ctx := context.Background()
	reader, err := newReader(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "initialize invoice source:", err)
		os.Exit(1)
	}

	rows, err := reader.ListInvoices(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch invoices:", err)
		os.Exit(1)
	}

	if *month == "" {
		months := core.Months(rows)
		if len(months) == 0 {
			fmt.Println("no invoices found")
			os.Exit(1)
		}
		fmt.Println("available months:", strings.Join(months, ", "))
		return
	}

	report, err := core.BuildReport(core.FilterMonth(rows, *month), cfg.Cards, cfg.TotalLabel, cfg.ToPayLabel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build report:", err)
		os.Exit(1)
	}
	fmt.Println(core.RenderReport(report))
}

func newReader(ctx context.Context, cfg *config.Config) (sheets.InvoiceReader, error) {
	switch cfg.SourceBackend {
	case config.BackendSheets:
		return google.New(ctx, cfg.GoogleSheetID, cfg.GoogleRange)
	case config.BackendCSV:
		return csvsource.New(cfg.CSVURL), nil
	default:
		return memory.NewFromFile(cfg.MemorySeedFile), nil
	}
}
