// Package selector holds the CSS selector probes configured for a run.
//
// Each probe adds one count column to the report. Probes are parsed once at
// startup and are read-only afterwards.
package selector

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Spec is a parsed selector group together with the text it was parsed from.
type Spec struct {
	raw   string
	group cascadia.SelectorGroup
}

// Parse compiles a CSS selector group such as "p" or "table.infobox, .navbox".
func Parse(text string) (Spec, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Spec{}, fmt.Errorf("empty selector")
	}
	group, err := cascadia.ParseGroup(trimmed)
	if err != nil {
		return Spec{}, fmt.Errorf("parse selector %q: %w", text, err)
	}
	return Spec{raw: text, group: group}, nil
}

// ParseAll parses selectors in declaration order and stops at the first error.
func ParseAll(texts []string) ([]Spec, error) {
	specs := make([]Spec, 0, len(texts))
	for _, t := range texts {
		s, err := Parse(t)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// Raw returns the selector as it was supplied.
func (s Spec) Raw() string { return s.raw }

// String returns the canonical serialisation of the selector group. It is the
// column label used in the report header.
func (s Spec) String() string {
	return s.group.String()
}

// Count returns the number of element nodes under root matched by the selector.
func (s Spec) Count(root *html.Node) int {
	if root == nil || len(s.group) == 0 {
		return 0
	}
	return len(cascadia.QueryAll(root, s.group))
}

// Labels renders the header labels for specs, in order.
func Labels(specs []Spec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.String()
	}
	return out
}

// CountAll returns one count per spec, in the same order as specs.
func CountAll(root *html.Node, specs []Spec) []int {
	out := make([]int, len(specs))
	for i, s := range specs {
		out[i] = s.Count(root)
	}
	return out
}
