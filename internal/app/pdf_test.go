package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/checkhtml/internal/audit"
)

func TestBuildSummaryPDF_TranslatesToCoreFontEncoding(t *testing.T) {
	s := audit.NewSummary()
	s.FailureKinds = map[string]int{"Пусто": 1}
	meta := manifestMeta{Version: "dev", FallbackLang: "en", GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	pdf := buildSummaryPDF(meta, []string{`[title="Примечания"]`, "p.café"}, s)
	pdf.SetCompression(false)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	out := buf.Bytes()

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "p.caf\xe9")
	assert.Contains(t, string(out), `[title=".........."]`)
	assert.Contains(t, string(out), "(.....)")
	assert.NotContains(t, string(out), "Примечания")
}
