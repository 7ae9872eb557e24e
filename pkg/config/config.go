package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	LogLevel  string
	LogFormat string

	// Contract storage (the one entity persisted outside the board).
	DatabaseURL    string
	MigrationsPath string

	Trello TrelloConfig
	Auth   AuthConfig
	Email  EmailConfig
	Jobs   JobsConfig

	// AllowedOrigins is a comma-separated allowlist of front-end origins
	// permitted to call the API from a browser.
	AllowedOrigins []string
}

type TrelloConfig struct {
	Key   string
	Token string

	// Board is a board id (24 hex), a shortLink, or a board URL.
	Board string

	// WebhookSecret verifies Trello webhook callback signatures (the OAuth
	// secret paired with the API key).
	WebhookSecret string

	// PublicBaseURL is the externally reachable URL of this backend, used as
	// the webhook callback URL when verifying signatures.
	PublicBaseURL string

	// List display names (or raw list ids). Resolved to ids once at startup.
	ListRequested string
	ListReserved  string
	ListOngoing   string
	ListDone      string
	ListCanceled  string

	ListClients  string
	ListVehicles string

	ListInvoicesOpen string
	ListInvoicesPaid string
	ListExpenses     string
}

type AuthConfig struct {
	// Two fixed roles with shared passwords, as the operator runs it.
	AdminPassword string
	AgentPassword string

	// SessionSecret signs session JWTs (HS256).
	SessionSecret string
}

type EmailConfig struct {
	// SendGridAPIKey empty disables outbound email entirely.
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	OpsEmail       string
}

type JobsConfig struct {
	Enabled bool

	// OverdueScan is a cron spec (with seconds) for the overdue-rental scan.
	OverdueScan string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	return Config{
		AppEnv:   env("APP_ENV", "dev"),
		HTTPAddr: httpAddr,

		LogLevel:  env("LOG_LEVEL", "info"),
		LogFormat: env("LOG_FORMAT", "text"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),

		Trello: TrelloConfig{
			Key:           os.Getenv("TRELLO_KEY"),
			Token:         os.Getenv("TRELLO_TOKEN"),
			Board:         os.Getenv("TRELLO_BOARD"),
			WebhookSecret: os.Getenv("TRELLO_WEBHOOK_SECRET"),
			PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),

			ListRequested: env("TRELLO_LIST_REQUESTED", "📥 DEMANDES"),
			ListReserved:  env("TRELLO_LIST_RESERVED", "📅 RESERVEES"),
			ListOngoing:   env("TRELLO_LIST_ONGOING", "🔑 EN COURS"),
			ListDone:      env("TRELLO_LIST_DONE", "✅ TERMINEES"),
			ListCanceled:  env("TRELLO_LIST_CANCELED", "⛔ ANNULEES"),

			ListClients:  env("TRELLO_LIST_CLIENTS", "👤 CLIENTS"),
			ListVehicles: env("TRELLO_LIST_VEHICLES", "🚗 VEHICULES"),

			ListInvoicesOpen: env("TRELLO_LIST_INVOICES_OPEN", "💳 FACTURES OUVERTES"),
			ListInvoicesPaid: env("TRELLO_LIST_INVOICES_PAID", "✅ FACTURES PAYEES"),
			ListExpenses:     env("TRELLO_LIST_EXPENSES", "💸 DEPENSES"),
		},

		Auth: AuthConfig{
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			AgentPassword: os.Getenv("AGENT_PASSWORD"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
		},

		Email: EmailConfig{
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			FromEmail:      env("EMAIL_FROM", "noreply@rentalboard.local"),
			FromName:       env("EMAIL_FROM_NAME", "Rentalboard"),
			OpsEmail:       os.Getenv("OPS_EMAIL"),
		},

		Jobs: JobsConfig{
			Enabled:     env("JOBS_ENABLED", "true") == "true",
			OverdueScan: env("JOBS_OVERDUE_SCAN", "0 0 8 * * *"),
		},

		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
