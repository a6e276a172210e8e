package audit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/checkhtml/internal/report"
)

// Observer is notified of every emitted record, in output order.
type Observer interface {
	Observe(rec report.Record)
}

// Driver reads paths line by line and writes one row per path to Sink.
type Driver struct {
	Checker *Checker
	Sink    *report.Writer
	// KeepGoing turns unreadable files into error rows instead of stopping
	// the run. It applies to the whole run.
	KeepGoing bool
	Observers []Observer
}

// Run processes every path in in. It stops at the first error reading in,
// writing to Sink, or (unless KeepGoing) reading a listed file. Transform
// failures never stop the run.
func (d *Driver) Run(ctx context.Context, in io.Reader) error {
	r := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read input: %w", readErr)
		}
		path := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if strings.TrimSpace(path) != "" {
			if err := d.one(path); err != nil {
				return err
			}
		}
		if readErr != nil {
			return nil
		}
	}
}

func (d *Driver) one(path string) error {
	rec, counts, err := d.Checker.Check(path)
	if err != nil {
		if !d.KeepGoing {
			return err
		}
		log.Warn().Err(err).Str("file", path).Msg("unreadable file")
		rec.ReadErr = err
		counts = make([]int, len(d.Checker.Selectors))
	}
	if err := d.Sink.WriteRow(rec, counts); err != nil {
		return err
	}

	ev := log.Debug().Str("file", rec.File).Int("original_size", rec.OriginalSize)
	if size, ok := rec.ProcessedSize(); ok {
		ev = ev.Int("processed_size", size)
	}
	if e := rec.Err(); e != nil {
		ev = ev.Str("error", report.DebugString(e))
	}
	ev.Msg("checked")

	for _, o := range d.Observers {
		o.Observe(rec)
	}
	return nil
}
