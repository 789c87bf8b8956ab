// Package config holds the service-level configuration, read from the
// environment with the ASSESS_ prefix.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brightboard/assessment/internal/llm"
)

type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	CORSOrigins []string

	// AttemptDuration is the default time limit for a quiz session.
	AttemptDuration time.Duration

	LLM llm.Config
}

// FromEnv builds the service configuration. The LLM section falls back to
// provider auto-discovery from standard API key variables when
// ASSESS_LLM_PROVIDER is unset.
func FromEnv() Config {
	mode := Mode(envOr("ASSESS_MODE", string(ModeDev)))

	llmCfg := llm.ConfigFromEnv()
	if os.Getenv("ASSESS_LLM_PROVIDER") == "" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			llmCfg = discovered
		}
	}

	return Config{
		Mode:            mode,
		HTTPAddr:        envOr("ASSESS_HTTP_ADDR", ":8080"),
		DBDriver:        envOr("ASSESS_DB_DRIVER", "sqlite"),
		DBDSN:           os.Getenv("ASSESS_DB_DSN"),
		CORSOrigins:     csvOr("ASSESS_CORS_ORIGINS", "http://localhost:3000"),
		AttemptDuration: envSeconds("ASSESS_ATTEMPT_DURATION_SECONDS", 600),
		LLM:             llmCfg,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envSeconds(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(def) * time.Second
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
