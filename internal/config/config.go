// Package config collects every runtime setting from the environment.
// main loads .env first, so local runs configure themselves the same way
// deployed ones do. Credentials are not configuration; they come from the
// secrets package.
package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Addr      string
	ReportDir string

	POS     POSConfig
	Payroll PayrollConfig
	Venues  VenueConfig
	Vault   VaultConfig
	Slack   SlackConfig
	Email   EmailConfig
}

type POSConfig struct {
	BaseURL string
	FanOut  int
}

type PayrollConfig struct {
	BaseURL    string
	Tenant     string
	Report     string
	ReportType string
}

// VenueConfig locates the venue cache and the static list used when the
// cache is down.
type VenueConfig struct {
	RedisURL     string
	FallbackFile string
}

type VaultConfig struct {
	Addr  string
	Token string
	Mount string
	Path  string
}

type SlackConfig struct {
	WebhookURL string
}

type EmailConfig struct {
	From string
	To   []string
}

func Load() Config {
	return Config{
		Addr:      getenv("ADDR", ":8080"),
		ReportDir: getenv("REPORT_DIR", "reports"),
		POS: POSConfig{
			BaseURL: os.Getenv("POS_BASE_URL"),
			FanOut:  getenvInt("POS_FAN_OUT", 0),
		},
		Payroll: PayrollConfig{
			BaseURL:    os.Getenv("PAYROLL_BASE_URL"),
			Tenant:     os.Getenv("PAYROLL_TENANT"),
			Report:     os.Getenv("PAYROLL_REPORT"),
			ReportType: getenv("PAYROLL_REPORT_TYPE", "xml"),
		},
		Venues: VenueConfig{
			RedisURL:     os.Getenv("REDIS_URL"),
			FallbackFile: os.Getenv("VENUE_FALLBACK_FILE"),
		},
		Vault: VaultConfig{
			Addr:  os.Getenv("VAULT_ADDR"),
			Token: os.Getenv("VAULT_TOKEN"),
			Mount: getenv("VAULT_MOUNT", "integrations"),
			Path:  getenv("VAULT_SECRET_PATH", "timecard-reconciliation"),
		},
		Slack: SlackConfig{
			WebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		},
		Email: EmailConfig{
			From: os.Getenv("EMAIL_FROM"),
			To:   splitList(os.Getenv("EMAIL_TO")),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
