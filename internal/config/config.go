// Package config loads and validates the environment-driven service
// configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"faturabot/internal/core"
)

const (
	BackendMemory = "memory"
	BackendSheets = "sheets"
	BackendCSV    = "csv"

	StateBackendMemory = "memory"
	StateBackendSQLite = "sqlite"
)

type Config struct {
	// HTTP server
	Port string

	// Telegram
	BotToken     string
	AllowedChats []int64

	// Invoice source
	SourceBackend  string
	GoogleSheetID  string
	GoogleRange    string
	CSVURL         string
	MemorySeedFile string

	// Domain labels
	Cards      []string
	TotalLabel string
	ToPayLabel string

	// Conversation state
	StateBackend string
	SQLiteDBPath string
	StateTTL     time.Duration

	// Keepalive
	KeepaliveURL      string
	KeepaliveInterval time.Duration

	// Events
	AMQPURL      string
	AMQPExchange string
	AMQPRoute    string

	LogLevel string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		BotToken:     getEnv("BOT_TOKEN", ""),
		AllowedChats: getEnvInt64List("ALLOWED_CHAT_IDS"),

		SourceBackend:  getEnv("SOURCE_BACKEND", BackendMemory),
		GoogleSheetID:  getEnv("GOOGLE_SHEET_ID", ""),
		GoogleRange:    getEnv("GOOGLE_SHEET_RANGE", "Faturas!A1:G1000"),
		CSVURL:         getEnv("CSV_URL", ""),
		MemorySeedFile: getEnv("MEMORY_SEED_FILE", "data/faturas.csv"),

		Cards:      getEnvList("CARDS", core.DefaultCards),
		TotalLabel: getEnv("TOTAL_LABEL", core.DefaultTotalLabel),
		ToPayLabel: getEnv("TO_PAY_LABEL", core.DefaultToPayLabel),

		StateBackend: getEnv("STATE_BACKEND", StateBackendMemory),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/faturabot.db"),
		StateTTL:     getEnvDuration("STATE_TTL", 10*time.Minute),

		KeepaliveURL:      getEnv("KEEPALIVE_URL", ""),
		KeepaliveInterval: getEnvDuration("KEEPALIVE_INTERVAL", 10*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "faturabot"),
		AMQPRoute:    getEnv("AMQP_ROUTING_KEY", "report_sent"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate collects every configuration problem into a single error so
// a broken deployment is fixed in one pass.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.BotToken == "" {
		problems = append(problems, "BOT_TOKEN is required")
	}

	switch c.SourceBackend {
	case BackendMemory:
		// Seed file is optional; an absent file just means no data.
	case BackendSheets:
		if c.GoogleSheetID == "" {
			problems = append(problems, "GOOGLE_SHEET_ID is required when using the sheets backend")
		}
		if c.GoogleRange == "" {
			problems = append(problems, "GOOGLE_SHEET_RANGE cannot be empty when using the sheets backend")
		}
	case BackendCSV:
		if c.CSVURL == "" {
			problems = append(problems, "CSV_URL is required when using the csv backend")
		} else if u, err := url.Parse(c.CSVURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			problems = append(problems, fmt.Sprintf("invalid CSV_URL '%s': must be an http(s) URL", c.CSVURL))
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid source backend '%s': must be one of [%s %s %s]",
			c.SourceBackend, BackendMemory, BackendSheets, BackendCSV))
	}

	switch c.StateBackend {
	case StateBackendMemory:
	case StateBackendSQLite:
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLITE_DB_PATH cannot be empty when using the sqlite state backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid state backend '%s': must be one of [%s %s]",
			c.StateBackend, StateBackendMemory, StateBackendSQLite))
	}

	if len(c.Cards) == 0 {
		problems = append(problems, "CARDS cannot be empty")
	}

	if c.StateTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid state TTL %v: must be at least 1 minute", c.StateTTL))
	}
	if c.KeepaliveURL != "" && c.KeepaliveInterval < 30*time.Second {
		problems = append(problems, fmt.Sprintf("invalid keepalive interval %v: must be at least 30 seconds", c.KeepaliveInterval))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP_EXCHANGE cannot be empty when AMQP_URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvInt64List(key string) []int64 {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []int64
	for _, part := range strings.Split(value, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		if id, err := strconv.ParseInt(p, 10, 64); err == nil {
			out = append(out, id)
		}
	}
	return out
}
