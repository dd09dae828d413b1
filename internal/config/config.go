package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultMetaAPIURL  = "https://graph.facebook.com/v19.0"
	DefaultSallaAPIURL = "https://api.salla.dev/admin/v2"
)

type Config struct {
	Port        string
	HTTPTimeout time.Duration
	LogLevel    slog.Level
	DatabaseURL string // vacío => store en memoria
	CORSOrigins []string

	MetaAdAccountID string
	MetaAccessToken string
	MetaAPIURL      string

	SallaAccessToken string
	SallaAPIURL      string

	SyncEnabled      bool
	SyncInterval     time.Duration
	SyncInitialDelay time.Duration
	SyncLookbackDays int
}

func (c Config) MetaConfigured() bool  { return c.MetaAdAccountID != "" && c.MetaAccessToken != "" }
func (c Config) SallaConfigured() bool { return c.SallaAccessToken != "" }

// Load lee un .env opcional y luego el entorno.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)
	return FromEnv()
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil && d > 0 {
			to = d
		}
	}
	return Config{
		Port:        envOr("PORT", "8080"),
		HTTPTimeout: to,
		LogLevel:    parseLevel(os.Getenv("LOG_LEVEL")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		CORSOrigins: envSlice("CORS_ORIGINS", []string{"*"}),

		MetaAdAccountID: strings.TrimPrefix(os.Getenv("META_AD_ACCOUNT_ID"), "act_"),
		MetaAccessToken: os.Getenv("META_ACCESS_TOKEN"),
		MetaAPIURL:      strings.TrimRight(envOr("META_API_URL", DefaultMetaAPIURL), "/"),

		SallaAccessToken: os.Getenv("SALLA_ACCESS_TOKEN"),
		SallaAPIURL:      strings.TrimRight(envOr("SALLA_API_URL", DefaultSallaAPIURL), "/"),

		SyncEnabled:      envBool("SYNC_ENABLED", true),
		SyncInterval:     envDuration("SYNC_INTERVAL", time.Hour),
		SyncInitialDelay: envDuration("SYNC_INITIAL_DELAY", 5*time.Second),
		SyncLookbackDays: envInt("SYNC_LOOKBACK_DAYS", 30),
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return def
}

func envSlice(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	out := make([]string, 0)
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
