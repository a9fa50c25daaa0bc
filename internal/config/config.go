package config

import (
	"os"
	"strconv"
	"time"
)

// Snapshot writer backends.
const (
	BackendGitHub   = "github"
	BackendPostgres = "postgres"
)

// Config holds runtime configuration parsed from environment variables.
// The secrets (write-API token, payment and email keys, admin token) have
// no defaults: the paths that need them fail explicitly when they are
// missing.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	DataDir         string
	SnapshotBaseURL string
	SnapshotBackend string
	PollInterval    time.Duration

	DBConnString string

	GitHubToken  string
	GitHubOwner  string
	GitHubRepo   string
	GitHubBranch string

	RelayURL        string
	StripeSecretKey string

	EmailAPIKey   string
	EmailEndpoint string
	EmailFrom     string
	OperatorEmail string

	AdminToken string
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),

		DataDir:         envOrDefault("DATA_DIR", "./data"),
		SnapshotBaseURL: envOrDefault("SNAPSHOT_BASE_URL", ""),
		SnapshotBackend: envOrDefault("SNAPSHOT_BACKEND", BackendGitHub),
		PollInterval:    envDuration("POLL_INTERVAL_SECONDS", 5*time.Second),

		DBConnString: envOrDefault("DB_DSN", ""),

		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		GitHubOwner:  os.Getenv("GITHUB_OWNER"),
		GitHubRepo:   os.Getenv("GITHUB_REPO"),
		GitHubBranch: envOrDefault("GITHUB_BRANCH", "main"),

		RelayURL:        os.Getenv("RELAY_URL"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		EmailAPIKey:   os.Getenv("EMAIL_API_KEY"),
		EmailEndpoint: envOrDefault("EMAIL_ENDPOINT", "https://api.resend.com/emails"),
		EmailFrom:     envOrDefault("EMAIL_FROM", "orders@kickslab.example"),
		OperatorEmail: envOrDefault("OPERATOR_EMAIL", "owner@kickslab.example"),

		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}
