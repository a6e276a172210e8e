package app

import (
	"os"
	"strings"

	"github.com/hyperifyio/checkhtml/internal/audit"
)

// ApplyEnvToConfig populates unset fields of cfg from CHECKHTML_* variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, envKey string) {
		if *dst != "" {
			return
		}
		*dst = strings.TrimSpace(os.Getenv(envKey))
	}
	setString(&cfg.SectionsPath, "CHECKHTML_SECTIONS_FILE")
	setString(&cfg.LogFile, "CHECKHTML_LOG_FILE")
	setString(&cfg.MetricsFile, "CHECKHTML_METRICS_FILE")

	// The fallback flag always carries a value, so env replaces the default.
	if v := strings.TrimSpace(os.Getenv("CHECKHTML_FALLBACK_LANG")); v != "" && (cfg.FallbackLang == "" || cfg.FallbackLang == audit.DefaultFallbackLang) {
		cfg.FallbackLang = v
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.KeepGoing, "CHECKHTML_KEEP_GOING")
	setBool(&cfg.GuessLang, "CHECKHTML_LANG_GUESS")
	setBool(&cfg.Verbose, "CHECKHTML_VERBOSE")
}
