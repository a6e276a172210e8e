package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/checkhtml/internal/audit"
)

// FileConfig is the YAML/JSON configuration file schema.
type FileConfig struct {
	Input     string   `yaml:"input" json:"input"`
	Output    string   `yaml:"output" json:"output"`
	Selectors []string `yaml:"selectors" json:"selectors"`
	KeepGoing bool     `yaml:"keepGoing" json:"keepGoing"`
	Verbose   bool     `yaml:"verbose" json:"verbose"`

	Lang struct {
		Fallback string `yaml:"fallback" json:"fallback"`
		Guess    bool   `yaml:"guess" json:"guess"`
	} `yaml:"lang" json:"lang"`

	Sections string `yaml:"sections" json:"sections"`

	Log struct {
		File string `yaml:"file" json:"file"`
	} `yaml:"log" json:"log"`

	Artifacts struct {
		Metrics  string `yaml:"metrics" json:"metrics"`
		PDF      string `yaml:"pdf" json:"pdf"`
		Manifest string `yaml:"manifest" json:"manifest"`
	} `yaml:"artifacts" json:"artifacts"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig fills fields of cfg that are unset or still at their flag
// default with values from fc. Explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if (cfg.InputPath == "" || cfg.InputPath == Stdio) && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if (cfg.OutputPath == "" || cfg.OutputPath == Stdio) && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if len(cfg.Selectors) == 0 && len(fc.Selectors) > 0 {
		cfg.Selectors = append([]string{}, fc.Selectors...)
	}
	if (cfg.FallbackLang == "" || cfg.FallbackLang == audit.DefaultFallbackLang) && fc.Lang.Fallback != "" {
		cfg.FallbackLang = fc.Lang.Fallback
	}
	if !cfg.GuessLang && fc.Lang.Guess {
		cfg.GuessLang = true
	}
	if !cfg.KeepGoing && fc.KeepGoing {
		cfg.KeepGoing = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	if cfg.SectionsPath == "" && fc.Sections != "" {
		cfg.SectionsPath = fc.Sections
	}
	if cfg.LogFile == "" && fc.Log.File != "" {
		cfg.LogFile = fc.Log.File
	}
	if cfg.MetricsFile == "" && fc.Artifacts.Metrics != "" {
		cfg.MetricsFile = fc.Artifacts.Metrics
	}
	if cfg.SummaryPDF == "" && fc.Artifacts.PDF != "" {
		cfg.SummaryPDF = fc.Artifacts.PDF
	}
	if cfg.Manifest == "" && fc.Artifacts.Manifest != "" {
		cfg.Manifest = fc.Artifacts.Manifest
	}
}
