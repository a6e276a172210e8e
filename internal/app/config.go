package app

import (
	"errors"
	"strings"
)

// Stdio is the path value that selects stdin for input and stdout for output.
const Stdio = "-"

// Config holds runtime configuration for a check run.
type Config struct {
	InputPath  string
	OutputPath string

	// Probes and transform
	Selectors    []string
	FallbackLang string
	GuessLang    bool
	SectionsPath string

	// Failure policy
	KeepGoing bool

	// Logging
	Verbose bool
	LogFile string

	// Run artefacts, all optional
	MetricsFile string
	SummaryPDF  string
	Manifest    string
}

// ValidateConfig checks settings that cannot be defaulted.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input path is required")
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return errors.New("config: output path is required")
	}
	if strings.TrimSpace(cfg.FallbackLang) == "" {
		return errors.New("config: fallback language must not be empty")
	}
	for _, s := range cfg.Selectors {
		if strings.TrimSpace(s) == "" {
			return errors.New("config: empty selector")
		}
	}
	if cfg.OutputPath != Stdio && cfg.OutputPath == cfg.InputPath {
		return errors.New("config: input and output must differ")
	}
	return nil
}
