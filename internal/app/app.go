package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/checkhtml/internal/audit"
	"github.com/hyperifyio/checkhtml/internal/extract"
	"github.com/hyperifyio/checkhtml/internal/normalize"
	"github.com/hyperifyio/checkhtml/internal/report"
	"github.com/hyperifyio/checkhtml/internal/selector"
)

// App wires configuration to the audit pipeline.
type App struct {
	cfg       Config
	selectors []selector.Spec
	checker   *audit.Checker

	// Stdin and Stdout back the "-" paths. They default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// New validates cfg and prepares the pipeline. Selector and sections
// problems are reported here, before any file is read.
func New(_ context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	specs, err := selector.ParseAll(cfg.Selectors)
	if err != nil {
		return nil, err
	}

	sections := normalize.DefaultSections()
	if cfg.SectionsPath != "" {
		if sections, err = normalize.LoadSections(cfg.SectionsPath); err != nil {
			return nil, fmt.Errorf("load sections: %w", err)
		}
	}

	a := &App{
		cfg:       cfg,
		selectors: specs,
		checker: &audit.Checker{
			Selectors:    specs,
			Transformer:  normalize.New(sections),
			Extractor:    extract.HTMLExtractor{GuessLang: cfg.GuessLang},
			FallbackLang: cfg.FallbackLang,
		},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
	log.Debug().Int("selectors", len(specs)).Str("fallback_lang", cfg.FallbackLang).Msg("pipeline ready")
	return a, nil
}

// SetTransformer replaces the reference transform.
func (a *App) SetTransformer(t normalize.Transformer) { a.checker.Transformer = t }

// Run writes the header and one row per input path, then the optional run
// artefacts. Artefacts are skipped when the run stops on a fatal error.
func (a *App) Run(ctx context.Context) error {
	in, closeIn, err := a.openInput()
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := a.openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	digest := sha256.New()
	sink := report.NewWriter(io.MultiWriter(out, digest))
	if err := sink.WriteHeader(selector.Labels(a.selectors)); err != nil {
		return err
	}

	summary := audit.NewSummary()
	observers := []audit.Observer{summary}
	var metrics *runMetrics
	if a.cfg.MetricsFile != "" {
		metrics = newRunMetrics()
		observers = append(observers, metrics)
	}

	d := &audit.Driver{
		Checker:   a.checker,
		Sink:      sink,
		KeepGoing: a.cfg.KeepGoing,
		Observers: observers,
	}
	if err := d.Run(ctx, in); err != nil {
		return err
	}

	log.Info().
		Int("files", summary.Files).
		Int("failed", summary.Failed).
		Int("unreadable", summary.Unreadable).
		Int64("original_bytes", summary.OriginalBytes).
		Int64("processed_bytes", summary.ProcessedBytes).
		Msg("check complete")

	return a.writeArtifacts(summary, metrics, digest)
}

func (a *App) writeArtifacts(summary *audit.Summary, metrics *runMetrics, digest hash.Hash) error {
	meta := manifestMeta{
		Version:      BuildVersion,
		Commit:       BuildCommit,
		Input:        a.cfg.InputPath,
		Output:       a.cfg.OutputPath,
		FallbackLang: a.checker.FallbackLang,
		GuessLang:    a.cfg.GuessLang,
		KeepGoing:    a.cfg.KeepGoing,
		ReportSHA256: hex.EncodeToString(digest.Sum(nil)),
		GeneratedAt:  time.Now().UTC(),
	}
	if metrics != nil {
		if err := metrics.writeTextfile(a.cfg.MetricsFile, summary); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Info().Str("out", a.cfg.MetricsFile).Msg("wrote metrics")
	}
	if a.cfg.Manifest != "" {
		sels := buildManifestSelectors(a.selectors, len(report.Columns))
		if err := writeManifest(a.cfg.Manifest, meta, sels, summary); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		log.Info().Str("out", a.cfg.Manifest).Msg("wrote manifest")
	}
	if a.cfg.SummaryPDF != "" {
		if err := writeSummaryPDF(a.cfg.SummaryPDF, meta, selector.Labels(a.selectors), summary); err != nil {
			return fmt.Errorf("write summary pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.SummaryPDF).Msg("wrote summary pdf")
	}
	return nil
}

func (a *App) openInput() (io.Reader, func(), error) {
	if a.cfg.InputPath == Stdio {
		return a.Stdin, func() {}, nil
	}
	f, err := os.Open(a.cfg.InputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func (a *App) openOutput() (io.Writer, func(), error) {
	if a.cfg.OutputPath == Stdio {
		return a.Stdout, func() {}, nil
	}
	f, err := os.Create(a.cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Str("out", a.cfg.OutputPath).Msg("close output")
		}
	}, nil
}
