package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port        int
	Env         string
	LogLevel    string
	LogFormat   string
	DatabaseURL string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	// InviteTTL is the invitation validity window.
	InviteTTL time.Duration

	// AcceptBaseURL prefixes invitation accept links.
	AcceptBaseURL string

	// SuperAdminEmail and BootstrapOrgSlug drive the startup promotion.
	// Empty email disables it.
	SuperAdminEmail  string
	BootstrapOrgSlug string
	BootstrapOrgName string

	HousekeepingInterval time.Duration
	ShutdownGracePeriod  time.Duration

	// SES settings; all four must be set to enable real email delivery,
	// otherwise invitation mails are logged instead.
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
	SESSender          string
}

// LoadConfig reads the configuration from the environment, applying
// defaults suitable for development.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        envInt("PORT", 8080),
		Env:         envStr("ENV", "dev"),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		LogFormat:   envStr("LOG_FORMAT", "json"),
		DatabaseURL: envStr("DATABASE_FILE", "orgd.db"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: envStr("JWT_ISSUER", "orgd"),
		JWTTTL:    envDuration("JWT_TTL", time.Hour),

		InviteTTL:     envDuration("INVITE_TTL", 7*24*time.Hour),
		AcceptBaseURL: envStr("ACCEPT_BASE_URL", "http://localhost:8080"),

		SuperAdminEmail:  os.Getenv("SUPER_ADMIN_EMAIL"),
		BootstrapOrgSlug: envStr("BOOTSTRAP_ORG_SLUG", "main"),
		BootstrapOrgName: os.Getenv("BOOTSTRAP_ORG_NAME"),

		HousekeepingInterval: envDuration("HOUSEKEEPING_INTERVAL", time.Hour),
		ShutdownGracePeriod:  envDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		SESRegion:          os.Getenv("SES_REGION"),
		SESAccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
		SESSecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
		SESSender:          os.Getenv("SES_SENDER"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}
	return cfg, nil
}

// SESEnabled reports whether real email delivery is configured.
func (c Config) SESEnabled() bool {
	return c.SESRegion != "" && c.SESAccessKeyID != "" &&
		c.SESSecretAccessKey != "" && c.SESSender != ""
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
