package app

import (
	"encoding/json"
	"os"
	"time"

	"github.com/hyperifyio/checkhtml/internal/audit"
	"github.com/hyperifyio/checkhtml/internal/selector"
)

// manifestMeta captures run settings that aid reproducibility.
type manifestMeta struct {
	Version      string    `json:"version"`
	Commit       string    `json:"commit"`
	Input        string    `json:"input"`
	Output       string    `json:"output"`
	FallbackLang string    `json:"fallback_lang"`
	GuessLang    bool      `json:"guess_lang"`
	KeepGoing    bool      `json:"keep_going"`
	ReportSHA256 string    `json:"report_sha256"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// manifestSelector records one probe column.
type manifestSelector struct {
	Column int    `json:"column"`
	Raw    string `json:"raw"`
	Label  string `json:"label"`
}

func buildManifestSelectors(specs []selector.Spec, firstColumn int) []manifestSelector {
	out := make([]manifestSelector, 0, len(specs))
	for i, s := range specs {
		out = append(out, manifestSelector{Column: firstColumn + i, Raw: s.Raw(), Label: s.String()})
	}
	return out
}

// marshalManifestJSON encodes the machine-readable run manifest.
func marshalManifestJSON(meta manifestMeta, selectors []manifestSelector, summary *audit.Summary) ([]byte, error) {
	payload := struct {
		Meta      manifestMeta       `json:"meta"`
		Selectors []manifestSelector `json:"selectors"`
		Summary   *audit.Summary     `json:"summary"`
	}{Meta: meta, Selectors: selectors, Summary: summary}
	return json.MarshalIndent(payload, "", "  ")
}

func writeManifest(path string, meta manifestMeta, selectors []manifestSelector, summary *audit.Summary) error {
	data, err := marshalManifestJSON(meta, selectors, summary)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
