// Package audit drives the per-file check: read, parse, extract, transform
// and emit one report row per input path.
package audit

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/hyperifyio/checkhtml/internal/extract"
	"github.com/hyperifyio/checkhtml/internal/normalize"
	"github.com/hyperifyio/checkhtml/internal/report"
	"github.com/hyperifyio/checkhtml/internal/selector"
)

// DefaultFallbackLang is the hint passed to the transform when a document
// declares no language.
const DefaultFallbackLang = "en"

// errInvalidUTF8 mirrors a text read of non UTF-8 content.
var errInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// ErrNoDocument is recorded when a transform reports success without a result.
var ErrNoDocument = errors.New("transform returned no document")

// ReadError reports a file that could not be read as text.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return "read " + e.Path + ": " + e.Err.Error() }

func (e *ReadError) Unwrap() error { return e.Err }

// GoString renders the debug form used in the report's error column.
func (e *ReadError) GoString() string { return "Read(" + strconv.Quote(e.Err.Error()) + ")" }

// Invoke runs t over doc and returns the byte length of the rendered result.
// When err is non-nil the size is meaningless.
func Invoke(t normalize.Transformer, doc *html.Node, lang string) (int, error) {
	out, err := t.Process(doc, lang)
	if err != nil {
		return 0, err
	}
	if out == nil {
		return 0, ErrNoDocument
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, out); err != nil {
		return 0, fmt.Errorf("render transformed document: %w", err)
	}
	return buf.Len(), nil
}

// Checker produces the report row for a single file.
type Checker struct {
	Selectors    []selector.Spec
	Transformer  normalize.Transformer
	Extractor    extract.Extractor
	FallbackLang string
}

// Check reads and analyses the file at path. The returned error is non-nil
// only when the file could not be read; transform failures are recorded in
// the record.
func (c *Checker) Check(path string) (report.Record, []int, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return report.Record{File: path}, nil, &ReadError{Path: path, Err: err}
	}
	if !utf8.Valid(contents) {
		return report.Record{File: path}, nil, &ReadError{Path: path, Err: errInvalidUTF8}
	}
	rec, counts := c.CheckBytes(path, contents)
	return rec, counts, nil
}

// CheckBytes analyses already loaded contents attributed to name.
func (c *Checker) CheckBytes(name string, contents []byte) (report.Record, []int) {
	rec := report.Record{File: name, OriginalSize: len(contents)}

	// x/net/html only fails on reader errors, which a bytes.Reader never returns.
	doc, err := html.Parse(bytes.NewReader(contents))
	if err != nil {
		rec.SetOutcome(0, err)
		return rec, make([]int, len(c.Selectors))
	}

	ex := c.Extractor
	if ex == nil {
		ex = extract.HTMLExtractor{}
	}
	f := ex.Extract(doc, c.Selectors)
	rec.Lang = f.Lang
	rec.Title = f.Title
	rec.Redirect = f.Redirect

	hint := f.Lang
	if hint == "" {
		hint = c.fallback()
	}
	rec.SetOutcome(Invoke(c.Transformer, doc, hint))
	return rec, f.Counts
}

func (c *Checker) fallback() string {
	if c.FallbackLang == "" {
		return DefaultFallbackLang
	}
	return c.FallbackLang
}
