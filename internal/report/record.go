// Package report builds report rows and writes them as tab-separated values.
package report

import (
	"errors"
	"fmt"
	"strconv"
)

// Columns are the fixed leading columns of every report, in order.
var Columns = []string{
	"file",
	"lang",
	"title",
	"original_size",
	"processed_size",
	"error",
	"redirect",
}

// Record is the outcome for one input file. Empty strings mean absent.
type Record struct {
	File     string
	Lang     string
	Title    string
	Redirect string

	OriginalSize int

	// processedSize and err are mutually exclusive; see SetOutcome.
	processedSize int
	err           error

	// ReadErr is set when the file itself could not be read. Such records
	// only exist when the run keeps going past unreadable files.
	ReadErr error
}

// SetOutcome records the transform result. A non-nil err wins and clears any
// size; otherwise size is kept and the error cleared.
func (r *Record) SetOutcome(size int, err error) {
	if err != nil {
		r.processedSize = 0
		r.err = err
		return
	}
	r.processedSize = size
	r.err = nil
}

// ProcessedSize returns the transformed size and whether it is set.
func (r Record) ProcessedSize() (int, bool) {
	if r.err != nil || r.ReadErr != nil {
		return 0, false
	}
	return r.processedSize, true
}

// Err returns the transform failure, if any.
func (r Record) Err() error { return r.err }

// Failed reports whether the row carries an error of either kind.
func (r Record) Failed() bool { return r.err != nil || r.ReadErr != nil }

// Fields renders the record followed by one cell per selector count.
func (r Record) Fields(counts []int) []string {
	out := make([]string, 0, len(Columns)+len(counts))
	out = append(out, r.File, r.Lang, r.Title)

	if r.ReadErr != nil {
		out = append(out, "", "", DebugString(r.ReadErr), r.Redirect)
		for range counts {
			out = append(out, "")
		}
		return out
	}

	out = append(out, strconv.Itoa(r.OriginalSize))
	if size, ok := r.ProcessedSize(); ok {
		out = append(out, strconv.Itoa(size))
	} else {
		out = append(out, "")
	}
	out = append(out, DebugString(r.err), r.Redirect)
	for _, c := range counts {
		out = append(out, strconv.Itoa(c))
	}
	return out
}

// DebugString renders err in its debug form: the GoString of the first error
// in the chain that has one, otherwise the quoted message. nil renders as "".
func DebugString(err error) string {
	if err == nil {
		return ""
	}
	var gs fmt.GoStringer
	if errors.As(err, &gs) {
		return gs.GoString()
	}
	return strconv.Quote(err.Error())
}
