package extract

import (
	"golang.org/x/net/html"

	"github.com/hyperifyio/checkhtml/internal/selector"
)

// Extractor derives Features from a parsed document.
// Implementations must not modify the document.
type Extractor interface {
	Extract(doc *html.Node, selectors []selector.Spec) Features
}

// HTMLExtractor reads declared metadata from the markup. With GuessLang set,
// documents that declare no language get a guess from their body text.
type HTMLExtractor struct {
	GuessLang bool
}

func (e HTMLExtractor) Extract(doc *html.Node, selectors []selector.Spec) Features {
	f := Features{
		Lang:     DetectLang(doc),
		Title:    Title(doc),
		Redirect: DetectRedirect(doc),
		Counts:   selector.CountAll(doc, selectors),
	}
	if f.Lang == "" && e.GuessLang {
		f.Lang = GuessLang(doc)
	}
	return f
}
