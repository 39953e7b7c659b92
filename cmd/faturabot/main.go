package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"faturabot/internal/bot"
	"faturabot/internal/config"
	"faturabot/internal/events"
	"faturabot/internal/httpapi"
	"faturabot/internal/keepalive"
	applog "faturabot/internal/log"
	"faturabot/internal/sheets"
	"faturabot/internal/sheets/csvsource"
	"faturabot/internal/sheets/google"
	"faturabot/internal/sheets/memory"
	"faturabot/internal/state"
	"faturabot/internal/storage"
	"faturabot/internal/telegram"
)

func main() {
	// .env is for local development; in production the environment is
	// already populated.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ParseLevel(cfg.LogLevel), applog.ComponentApp)
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader, err := newReader(ctx, cfg)
	if err != nil {
		logger.Error("initialize invoice source", applog.FieldError, err, "backend", cfg.SourceBackend)
		os.Exit(1)
	}
	logger.Info("invoice source initialized", "backend", cfg.SourceBackend)

	states, closeStates, err := newStateStore(cfg)
	if err != nil {
		logger.Error("initialize state store", applog.FieldError, err, "backend", cfg.StateBackend)
		os.Exit(1)
	}
	defer closeStates()
	logger.Info("state store initialized", "backend", cfg.StateBackend)

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoute)
		if err != nil {
			logger.Error("initialize AMQP publisher", applog.FieldError, err)
			os.Exit(1)
		}
		defer p.Close()
		publisher = p
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
	}

	handler := bot.NewHandler(
		reader,
		telegram.NewClient(cfg.BotToken),
		states,
		publisher,
		logger.WithComponent(applog.ComponentBot),
		bot.Config{
			Cards:        cfg.Cards,
			TotalLabel:   cfg.TotalLabel,
			ToPayLabel:   cfg.ToPayLabel,
			AllowedChats: cfg.AllowedChats,
		},
	)

	srv := httpapi.NewServer(":"+cfg.Port, cfg.BotToken, handler, logger.WithComponent(applog.ComponentHTTP))
	pinger := keepalive.New(cfg.KeepaliveURL, cfg.KeepaliveInterval, logger.WithComponent(applog.ComponentKeepalive))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting webhook server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := pinger.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
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

func newStateStore(cfg *config.Config) (state.Store, func(), error) {
	if cfg.StateBackend == config.StateBackendSQLite {
		store, err := storage.NewSQLiteStateStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}
	store := state.NewMemoryStore(cfg.StateTTL)
	return store, store.Close, nil
}
