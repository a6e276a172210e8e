// Package normalize defines the document normalisation boundary and ships a
// reference transform.
//
// The audit pipeline only depends on Transformer. Normalizer removes
// non-content markup and unwanted sections, then sanitises what is left.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Transformer rewrites a parsed document given a language hint. The returned
// node is the root of the transformed document. Implementations may modify doc.
type Transformer interface {
	Process(doc *html.Node, lang string) (*html.Node, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(doc *html.Node, lang string) (*html.Node, error)

func (f TransformerFunc) Process(doc *html.Node, lang string) (*html.Node, error) {
	return f(doc, lang)
}

// ErrorKind classifies transform failures.
type ErrorKind int

const (
	// NoText means nothing readable was left after processing.
	NoText ErrorKind = iota + 1
	// Panic means the transform panicked and was recovered.
	Panic
)

func (k ErrorKind) String() string {
	switch k {
	case NoText:
		return "NoText"
	case Panic:
		return "Panic"
	default:
		return "Unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error is the structured failure returned by Normalizer.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return "normalize: " + strings.ToLower(e.Kind.String())
	}
	return "normalize: " + strings.ToLower(e.Kind.String()) + ": " + e.Detail
}

// GoString renders the debug form written to the report, e.g. NoText or
// Panic("index out of range").
func (e *Error) GoString() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + "(" + strconv.Quote(e.Detail) + ")"
}

// unwanted lists elements that never carry article content.
const unwanted = "script, style, noscript, link, meta, template, " +
	"sup.reference, .mw-ref, .mw-editsection, .navbox, .noprint, .mw-empty-elt"

// Normalizer is the reference Transformer. It keeps readable body text
// only, so a bare redirect stub (a redirect link and an empty body) fails
// with NoText; the redirect target is still reported by extraction.
type Normalizer struct {
	Sections Sections
	policy   *bluemonday.Policy
}

// New returns a Normalizer that removes the given sections. A nil Sections
// uses DefaultSections.
func New(sections Sections) *Normalizer {
	if sections == nil {
		sections = DefaultSections()
	}
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("lang", "dir").Globally()
	return &Normalizer{Sections: sections, policy: p}
}

// Process implements Transformer.
func (n *Normalizer) Process(doc *html.Node, lang string) (out *html.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &Error{Kind: Panic, Detail: fmt.Sprint(r)}
		}
	}()
	if doc == nil {
		return nil, &Error{Kind: NoText, Detail: "empty document"}
	}

	q := goquery.NewDocumentFromNode(doc)
	q.Find(unwanted).Remove()
	removeComments(doc)
	n.removeSections(q, lang)

	body := q.Find("body").First()
	if strings.TrimSpace(body.Text()) == "" {
		return nil, &Error{Kind: NoText}
	}
	inner, err := body.Html()
	if err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}
	clean := n.policy.Sanitize(inner)

	root := &html.Node{Type: html.DocumentNode}
	nodes, err := html.ParseFragment(strings.NewReader(clean), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("parse sanitized body: %w", err)
	}
	for _, c := range nodes {
		root.AppendChild(c)
	}
	return root, nil
}

// removeSections drops every section whose heading is unwanted for lang.
// Parsoid wraps sections in <section>; flat documents lose the heading and
// its following siblings up to the next heading of the same or higher rank.
func (n *Normalizer) removeSections(q *goquery.Document, lang string) {
	titles := n.Sections.For(lang)
	if len(titles) == 0 {
		return
	}
	q.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
		if h.Nodes[0].Parent == nil {
			// dropped together with an earlier section
			return
		}
		if !titles.Has(h.Text()) {
			return
		}
		if parent := h.Parent(); goquery.NodeName(parent) == "section" {
			if first := parent.Children().First(); first.Length() == 1 && first.Nodes[0] == h.Nodes[0] {
				parent.Remove()
				return
			}
		}
		rank := headingRank(h.Nodes[0])
		for sib := h.Nodes[0].NextSibling; sib != nil; {
			next := sib.NextSibling
			if r := headingRank(sib); r > 0 && r <= rank {
				break
			}
			sib.Parent.RemoveChild(sib)
			sib = next
		}
		h.Remove()
	})
}

func headingRank(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}
