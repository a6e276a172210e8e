package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kindErr string

func (k kindErr) Error() string    { return "kind " + string(k) }
func (k kindErr) GoString() string { return string(k) }

func readTSV(t *testing.T, s string) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestSetOutcome_MutuallyExclusive(t *testing.T) {
	var r Record
	r.SetOutcome(42, nil)
	size, ok := r.ProcessedSize()
	assert.True(t, ok)
	assert.Equal(t, 42, size)
	assert.NoError(t, r.Err())

	r.SetOutcome(42, kindErr("NoText"))
	_, ok = r.ProcessedSize()
	assert.False(t, ok)
	assert.Error(t, r.Err())

	r.SetOutcome(7, nil)
	size, ok = r.ProcessedSize()
	assert.True(t, ok)
	assert.Equal(t, 7, size)
	assert.NoError(t, r.Err())
}

func TestFields_Success(t *testing.T) {
	r := Record{File: "a.html", Lang: "fr", OriginalSize: 120, Redirect: "Target"}
	r.SetOutcome(80, nil)
	assert.Equal(t,
		[]string{"a.html", "fr", "", "120", "80", "", "Target", "3", "0"},
		r.Fields([]int{3, 0}))
}

func TestFields_TransformError(t *testing.T) {
	r := Record{File: "b.html", Title: "B", OriginalSize: 10}
	r.SetOutcome(0, fmt.Errorf("wrapped: %w", kindErr("NoText")))
	assert.Equal(t,
		[]string{"b.html", "", "B", "10", "", "NoText", ""},
		r.Fields(nil))
	assert.True(t, r.Failed())
}

func TestFields_ReadError(t *testing.T) {
	r := Record{File: "gone.html", ReadErr: errors.New("no such file")}
	fields := r.Fields([]int{0, 0})
	assert.Equal(t,
		[]string{"gone.html", "", "", "", "", `"no such file"`, "", "", ""},
		fields)
	_, ok := r.ProcessedSize()
	assert.False(t, ok)
}

func TestDebugString(t *testing.T) {
	assert.Equal(t, "", DebugString(nil))
	assert.Equal(t, `"plain"`, DebugString(errors.New("plain")))
	assert.Equal(t, "Panic", DebugString(kindErr("Panic")))
}

func TestWriter_HeaderThenRows(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.ErrorIs(t, w.WriteRow(Record{File: "x"}, nil), ErrNoHeader)
	require.NoError(t, w.WriteHeader([]string{"p", "div > p"}))
	require.ErrorIs(t, w.WriteHeader(nil), ErrHeaderWritten)

	ok := Record{File: "ok.html", Lang: "en", OriginalSize: 5}
	ok.SetOutcome(3, nil)
	bad := Record{File: "bad.html", OriginalSize: 9, Title: "tab\there"}
	bad.SetOutcome(0, kindErr("NoText"))
	require.NoError(t, w.WriteRow(ok, []int{3, 0}))
	require.NoError(t, w.WriteRow(bad, []int{1, 2}))
	assert.Equal(t, 2, w.Rows())

	rows := readTSV(t, buf.String())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"file", "lang", "title", "original_size", "processed_size", "error", "redirect", "p", "div > p"}, rows[0])
	for _, row := range rows {
		assert.Len(t, row, len(rows[0]))
	}
	assert.Equal(t, "ok.html", rows[1][0])
	assert.Equal(t, "bad.html", rows[2][0])
	assert.Equal(t, "tab\there", rows[2][2])
	assert.Equal(t, "NoText", rows[2][5])
	assert.Equal(t, "", rows[2][4])
}

func TestWriter_RejectsWidthMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader([]string{"p"}))
	before := buf.Len()

	err := w.WriteRow(Record{File: "a"}, []int{1, 2})
	require.ErrorIs(t, err, ErrRowWidth)
	assert.Equal(t, before, buf.Len(), "nothing is written for a rejected row")
	assert.Equal(t, 0, w.Rows())
}

func TestWriter_ZeroSelectors(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(nil))
	r := Record{File: "a.html"}
	r.SetOutcome(1, nil)
	require.NoError(t, w.WriteRow(r, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Columns, "\t"), lines[0])
	assert.Equal(t, len(Columns), len(strings.Split(lines[1], "\t")))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriter_PropagatesSinkError(t *testing.T) {
	w := NewWriter(failingWriter{})
	err := w.WriteHeader(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}
