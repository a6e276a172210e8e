package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"
	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/hyperifyio/checkhtml/internal/selector"
)

// Features are the diagnostics derived from one parsed document.
// An empty string means the feature was not found.
type Features struct {
	Lang     string
	Title    string
	Redirect string
	// Counts holds one match count per configured selector, in order.
	Counts []int
}

// parsoidRedirect is the rel value Parsoid emits on redirect stubs.
const parsoidRedirect = "mw:PageProp/redirect"

// maxGuessChars bounds the amount of body text fed to the language guesser.
const maxGuessChars = 4000

// DetectLang returns the language declared on the root <html> element.
// Well-formed BCP 47 tags get normalised case and separators ("EN_gb"
// becomes "en-GB") but keep their subtags, so legacy codes like "iw" stay
// as declared. Anything else is returned as declared.
func DetectLang(doc *html.Node) string {
	root := goquery.NewDocumentFromNode(doc).Find("html").First()
	v, ok := root.Attr("lang")
	if !ok || strings.TrimSpace(v) == "" {
		v, ok = root.Attr("xml:lang")
	}
	if !ok {
		return ""
	}
	return canonicalLang(v)
}

func canonicalLang(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	tag, err := language.Raw.Parse(v)
	if err != nil {
		return v
	}
	return tag.String()
}

// Title returns the collapsed text of the document's <title>.
func Title(doc *html.Node) string {
	head := findFirst(doc, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil {
		return ""
	}
	return collapseSpaces(strings.TrimSpace(goquery.NewDocumentFromNode(t).Text()))
}

// DetectRedirect returns the target of a redirect stub, or "" when the page
// is not one. Parsoid redirect links win over meta refresh.
func DetectRedirect(doc *html.Node) string {
	q := goquery.NewDocumentFromNode(doc)

	if href, ok := q.Find(`link[rel~="` + parsoidRedirect + `"]`).First().Attr("href"); ok {
		target := strings.TrimPrefix(strings.TrimSpace(href), "./")
		if unescaped, err := url.PathUnescape(target); err == nil {
			target = unescaped
		}
		if target != "" {
			return target
		}
	}

	var target string
	q.Find("meta[http-equiv]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("http-equiv", "")), "refresh") {
			return true
		}
		target = refreshTarget(s.AttrOr("content", ""))
		return target == ""
	})
	return target
}

// refreshTarget extracts the URL from a meta refresh value like "0; url=/next".
func refreshTarget(content string) string {
	_, rest, found := strings.Cut(content, ";")
	if !found {
		return ""
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 4 || !strings.EqualFold(rest[:3], "url") {
		return ""
	}
	rest = strings.TrimSpace(rest[3:])
	if !strings.HasPrefix(rest, "=") {
		return ""
	}
	rest = strings.TrimSpace(rest[1:])
	return strings.Trim(rest, `'"`)
}

// GuessLang guesses the ISO 639-1 language of the body text. It returns ""
// when the guess is not reliable.
func GuessLang(doc *html.Node) string {
	body := findFirst(doc, "body")
	if body == nil {
		return ""
	}
	var b strings.Builder
	collectText(&b, body)
	text := collapseSpaces(b.String())
	if len(text) > maxGuessChars {
		text = strings.ToValidUTF8(text[:maxGuessChars], "")
	}
	if strings.TrimSpace(text) == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}

// Extract runs every detector over doc with the default options.
func Extract(doc *html.Node, selectors []selector.Spec) Features {
	return HTMLExtractor{}.Extract(doc, selectors)
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "nav", "footer", "template":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}
