// Command check-html reads HTML file paths from stdin, one per line, and
// writes a tab-separated report of detected features and normalisation
// results to stdout.
//
//	find pages -name '*.html' | check-html -s 'table.infobox' -s p > report.tsv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/checkhtml/internal/app"
	"github.com/hyperifyio/checkhtml/internal/audit"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// errVersion stops argument handling after -version was printed.
var errVersion = errors.New("version requested")

// usageError marks command line misuse, which exits with status 2.
type usageError struct{ error }

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case errors.Is(err, errVersion), errors.Is(err, flag.ErrHelp):
		return
	case err != nil:
		var uerr usageError
		if errors.As(err, &uerr) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	closer := app.SetupLogging(os.Stderr, cfg.Verbose, cfg.LogFile)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Deferred calls do not run after os.Exit.
		stop()
		_ = closer.Close()
		os.Exit(1)
	}
}

func parseArgs(args []string, stdout, stderr io.Writer) (app.Config, error) {
	fs := flag.NewFlagSet("check-html", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		selectors    stringList
		inputPath    string
		outputPath   string
		configPath   string
		fallbackLang string
		guessLang    bool
		keepGoing    bool
		sectionsPath string
		metricsFile  string
		summaryPDF   string
		manifest     string
		logFile      string
		verbose      bool
		version      bool
	)

	fs.Var(&selectors, "s", "CSS selector to count in every document (repeatable)")
	fs.Var(&selectors, "selector", "Alias of -s")
	fs.StringVar(&inputPath, "input", app.Stdio, "File listing one HTML path per line ('-' for stdin)")
	fs.StringVar(&outputPath, "output", app.Stdio, "Where to write the TSV report ('-' for stdout)")
	fs.StringVar(&configPath, "config", os.Getenv("CHECKHTML_CONFIG"), "Optional YAML or JSON config file")
	fs.StringVar(&fallbackLang, "lang.fallback", audit.DefaultFallbackLang, "Language hint for documents that declare none")
	fs.BoolVar(&guessLang, "lang.guess", false, "Guess the language from body text when none is declared")
	fs.BoolVar(&keepGoing, "keep-going", false, "Record unreadable files as error rows instead of stopping")
	fs.StringVar(&sectionsPath, "sections", "", "YAML file of per-language section headings to remove")
	fs.StringVar(&metricsFile, "metrics.file", "", "Write Prometheus textfile metrics for the run to this path")
	fs.StringVar(&summaryPDF, "summary.pdf", "", "Write a one-page PDF summary of the run to this path")
	fs.StringVar(&manifest, "manifest", "", "Write a JSON run manifest to this path")
	fs.StringVar(&logFile, "log.file", "", "Also write JSON logs to this rotated file")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.BoolVar(&version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return app.Config{}, err
		}
		return app.Config{}, usageError{err}
	}
	if version {
		fmt.Fprintf(stdout, "check-html %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return app.Config{}, errVersion
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return app.Config{}, usageError{errors.New("unexpected arguments")}
	}

	cfg := app.Config{
		InputPath:    inputPath,
		OutputPath:   outputPath,
		Selectors:    selectors,
		FallbackLang: fallbackLang,
		GuessLang:    guessLang,
		SectionsPath: sectionsPath,
		KeepGoing:    keepGoing,
		Verbose:      verbose,
		LogFile:      logFile,
		MetricsFile:  metricsFile,
		SummaryPDF:   summaryPDF,
		Manifest:     manifest,
	}

	// Env fills what flags left unset, then the config file.
	app.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "config: %v\n", err)
			return app.Config{}, err
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	// Flags given on the command line win even when they repeat the default.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "s", "selector":
			cfg.Selectors = selectors
		case "input":
			cfg.InputPath = inputPath
		case "output":
			cfg.OutputPath = outputPath
		case "lang.fallback":
			cfg.FallbackLang = fallbackLang
		case "lang.guess":
			cfg.GuessLang = guessLang
		case "keep-going":
			cfg.KeepGoing = keepGoing
		case "sections":
			cfg.SectionsPath = sectionsPath
		case "metrics.file":
			cfg.MetricsFile = metricsFile
		case "summary.pdf":
			cfg.SummaryPDF = summaryPDF
		case "manifest":
			cfg.Manifest = manifest
		case "log.file":
			cfg.LogFile = logFile
		case "v":
			cfg.Verbose = verbose
		}
	})
	return cfg, nil
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
