package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	HTTPTimeout     time.Duration
	LogLevel        slog.Level
	MaxUploadBytes  int64
	SessionCapacity int
	FetchRetries    int
	FetchBackoff    time.Duration
	LenientMetrics  bool

	// classifier and margin defaults
	TargetACOS float64
	MinClicks  float64
	MinOrders  float64
	FeePct     float64
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		Port:            envOr("PORT", "8080"),
		HTTPTimeout:     to,
		LogLevel:        lvl,
		MaxUploadBytes:  int64(envInt("MAX_UPLOAD_MB", 20)) << 20,
		SessionCapacity: envInt("SESSION_CAPACITY", 64),
		FetchRetries:    envInt("FETCH_RETRIES", 3),
		FetchBackoff:    time.Duration(envInt("FETCH_BACKOFF_MS", 100)) * time.Millisecond,
		LenientMetrics:  envBool("LENIENT_METRICS", false),
		TargetACOS:      envFloat("TARGET_ACOS", 0.25),
		MinClicks:       envFloat("MIN_CLICKS", 50),
		MinOrders:       envFloat("MIN_ORDERS", 3),
		FeePct:          envFloat("FEE_PCT", 0.12),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []string
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %q", c.Port))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, "MAX_UPLOAD_MB must be positive")
	}
	if c.SessionCapacity < 1 {
		errs = append(errs, fmt.Sprintf("invalid session capacity %d: must be at least 1", c.SessionCapacity))
	}
	if c.FetchRetries < 0 {
		errs = append(errs, "FETCH_RETRIES cannot be negative")
	}
	if c.TargetACOS < 0 {
		errs = append(errs, "TARGET_ACOS cannot be negative")
	}
	if c.FeePct < 0 || c.FeePct > 1 {
		errs = append(errs, fmt.Sprintf("invalid FEE_PCT %v: must be a fraction between 0 and 1", c.FeePct))
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}

func envFloat(k string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil {
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
