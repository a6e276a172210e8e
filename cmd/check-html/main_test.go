package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/checkhtml/internal/app"
)

func TestParseArgs_RepeatableSelectors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg, err := parseArgs([]string{"-s", "p", "-selector", "table.infobox", "-s", "li", "-keep-going"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "table.infobox", "li"}, cfg.Selectors)
	assert.True(t, cfg.KeepGoing)
	assert.Equal(t, app.Stdio, cfg.InputPath)
	assert.Equal(t, app.Stdio, cfg.OutputPath)
	assert.Equal(t, "en", cfg.FallbackLang)
}

func TestParseArgs_ConfigFileFillsGaps(t *testing.T) {
	t.Setenv("CHECKHTML_FALLBACK_LANG", "")
	dir := t.TempDir()
	conf := filepath.Join(dir, "check.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("selectors: [h2]\nlang:\n  fallback: ru\nartifacts:\n  manifest: m.json\n"), 0o644))

	var stdout, stderr bytes.Buffer
	cfg, err := parseArgs([]string{"-config", conf}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, []string{"h2"}, cfg.Selectors)
	assert.Equal(t, "ru", cfg.FallbackLang)
	assert.Equal(t, "m.json", cfg.Manifest)

	cfg, err = parseArgs([]string{"-config", conf, "-s", "p", "-lang.fallback", "es"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, cfg.Selectors)
	assert.Equal(t, "es", cfg.FallbackLang)
}

func TestParseArgs_ExplicitFlagsBeatEnvAndFile(t *testing.T) {
	t.Setenv("CHECKHTML_FALLBACK_LANG", "de")
	t.Setenv("CHECKHTML_KEEP_GOING", "1")
	dir := t.TempDir()
	conf := filepath.Join(dir, "check.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("input: paths.txt\noutput: report.tsv\nselectors: [h2]\n"), 0o644))

	var stdout, stderr bytes.Buffer
	cfg, err := parseArgs([]string{"-config", conf}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.FallbackLang)
	assert.True(t, cfg.KeepGoing)
	assert.Equal(t, "paths.txt", cfg.InputPath)
	assert.Equal(t, "report.tsv", cfg.OutputPath)

	cfg, err = parseArgs([]string{
		"-config", conf,
		"-lang.fallback", "en",
		"-keep-going=false",
		"-input", "-",
		"-output", "-",
	}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.FallbackLang)
	assert.False(t, cfg.KeepGoing)
	assert.Equal(t, app.Stdio, cfg.InputPath)
	assert.Equal(t, app.Stdio, cfg.OutputPath)
	assert.Equal(t, []string{"h2"}, cfg.Selectors)
}

func TestParseArgs_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	_, err := parseArgs([]string{"-nope"}, &stdout, &stderr)
	var uerr usageError
	assert.True(t, errors.As(err, &uerr))

	_, err = parseArgs([]string{"extra"}, &stdout, &stderr)
	assert.True(t, errors.As(err, &uerr))

	_, err = parseArgs([]string{"-h"}, &stdout, &stderr)
	assert.ErrorIs(t, err, flag.ErrHelp)

	_, err = parseArgs([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr)
	require.Error(t, err)
	assert.False(t, errors.As(err, &uerr))

	_, err = parseArgs([]string{"-version"}, &stdout, &stderr)
	assert.ErrorIs(t, err, errVersion)
	assert.Contains(t, stdout.String(), "check-html "+app.BuildVersion)
}

// Smoke test: run writes a report for files listed in an input file.
func TestRun_WritesReport(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page_ok.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html lang="fr"><head><link rel="mw:PageProp/redirect" href="./Cible"></head><body><p>Texte</p></body></html>`), 0o644))
	list := filepath.Join(dir, "paths.txt")
	require.NoError(t, os.WriteFile(list, []byte(page+"\n"), 0o644))
	out := filepath.Join(dir, "report.tsv")

	cfg := app.Config{InputPath: list, OutputPath: out, FallbackLang: "en", Selectors: []string{"p"}}
	require.NoError(t, run(context.Background(), cfg))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	require.Len(t, lines, 2)
	cells := strings.Split(lines[1], "\t")
	assert.Equal(t, []string{page, "fr", ""}, cells[:3])
	assert.Equal(t, "", cells[5])
	assert.Equal(t, "Cible", cells[6])
	assert.Equal(t, "1", cells[7])
}

func TestRun_BadSelectorFailsBeforeReading(t *testing.T) {
	cfg := app.Config{InputPath: filepath.Join(t.TempDir(), "never-opened.txt"), OutputPath: app.Stdio, FallbackLang: "en", Selectors: []string{"a["}}
	err := run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init app")
}
