package audit

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/hyperifyio/checkhtml/internal/normalize"
	"github.com/hyperifyio/checkhtml/internal/report"
)

// Summary accumulates run totals. Its size does not grow with the number of
// files: failures are bucketed by kind.
type Summary struct {
	Files          int            `json:"files"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	Unreadable     int            `json:"unreadable"`
	Redirects      int            `json:"redirects"`
	OriginalBytes  int64          `json:"original_bytes"`
	ProcessedBytes int64          `json:"processed_bytes"`
	FailureKinds   map[string]int `json:"failure_kinds,omitempty"`
	Started        time.Time      `json:"started"`
	Finished       time.Time      `json:"finished"`

	now func() time.Time
}

// NewSummary returns an empty Summary stamped with the current time.
func NewSummary() *Summary {
	s := &Summary{now: time.Now}
	s.Started = s.now().UTC()
	s.Finished = s.Started
	return s
}

// Observe implements Observer.
func (s *Summary) Observe(rec report.Record) {
	s.Files++
	if s.now != nil {
		s.Finished = s.now().UTC()
	}
	if rec.Redirect != "" {
		s.Redirects++
	}
	if rec.ReadErr != nil {
		s.Unreadable++
		return
	}
	s.OriginalBytes += int64(rec.OriginalSize)
	if size, ok := rec.ProcessedSize(); ok {
		s.Succeeded++
		s.ProcessedBytes += int64(size)
		return
	}
	s.Failed++
	if s.FailureKinds == nil {
		s.FailureKinds = map[string]int{}
	}
	s.FailureKinds[FailureKind(rec.Err())]++
}

// FailureRate is the share of read files whose transform failed.
func (s *Summary) FailureRate() float64 {
	read := s.Succeeded + s.Failed
	if read == 0 {
		return 0
	}
	return float64(s.Failed) / float64(read)
}

// Kinds returns failure kinds sorted by name.
func (s *Summary) Kinds() []string {
	out := make([]string, 0, len(s.FailureKinds))
	for k := range s.FailureKinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FailureKind names the class of a transform failure for bucketing.
func FailureKind(err error) string {
	var nerr *normalize.Error
	if errors.As(err, &nerr) {
		return nerr.Kind.String()
	}
	if err == nil {
		return ""
	}
	// Debug forms look like Kind or Kind("detail"); keep the Kind.
	d := report.DebugString(err)
	if strings.HasPrefix(d, `"`) {
		return "Other"
	}
	if i := strings.IndexByte(d, '('); i > 0 {
		return d[:i]
	}
	return d
}
