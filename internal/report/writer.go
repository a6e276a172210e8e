package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrHeaderWritten is returned when the header is written twice.
	ErrHeaderWritten = errors.New("report: header already written")
	// ErrNoHeader is returned when a row is written before the header.
	ErrNoHeader = errors.New("report: row written before header")
	// ErrRowWidth is returned when a row does not match the header width.
	ErrRowWidth = errors.New("report: row width does not match header")
)

// Writer emits a tab-separated report: one header, then one line per row.
// Each row is flushed as soon as it is written.
type Writer struct {
	w     *csv.Writer
	width int
	rows  int
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &Writer{w: cw}
}

// WriteHeader writes the fixed columns followed by one label per selector.
func (w *Writer) WriteHeader(selectorLabels []string) error {
	if w.width > 0 {
		return ErrHeaderWritten
	}
	header := make([]string, 0, len(Columns)+len(selectorLabels))
	header = append(header, Columns...)
	header = append(header, selectorLabels...)
	if err := w.write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.width = len(header)
	return nil
}

// WriteRow writes rec and its selector counts as one line.
func (w *Writer) WriteRow(rec Record, counts []int) error {
	if w.width == 0 {
		return ErrNoHeader
	}
	fields := rec.Fields(counts)
	if len(fields) != w.width {
		return fmt.Errorf("%w: %d fields, header has %d", ErrRowWidth, len(fields), w.width)
	}
	if err := w.write(fields); err != nil {
		return fmt.Errorf("write row for %s: %w", rec.File, err)
	}
	w.rows++
	return nil
}

// Rows returns the number of data rows written.
func (w *Writer) Rows() int { return w.rows }

func (w *Writer) write(fields []string) error {
	if err := w.w.Write(fields); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}
