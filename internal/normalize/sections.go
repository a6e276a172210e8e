package normalize

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	yaml "gopkg.in/yaml.v3"
)

// Sections maps a language code to the section headings removed for it.
type Sections map[string]TitleSet

// TitleSet is a set of headings compared case-insensitively after trimming.
type TitleSet map[string]struct{}

// NewTitleSet builds a TitleSet from headings.
func NewTitleSet(titles ...string) TitleSet {
	s := make(TitleSet, len(titles))
	for _, t := range titles {
		if k := titleKey(t); k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// Has reports whether heading is in the set.
func (s TitleSet) Has(heading string) bool {
	_, ok := s[titleKey(heading)]
	return ok
}

func titleKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// For returns the headings for lang. An exact key wins; otherwise the base
// language of the tag is tried, so "fr-CA" falls back to "fr".
func (s Sections) For(lang string) TitleSet {
	if set, ok := s[lang]; ok {
		return set
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil
	}
	if set, ok := s[tag.String()]; ok {
		return set
	}
	base, _ := tag.Base()
	return s[base.String()]
}

// DefaultSections returns the built-in headings for common languages.
func DefaultSections() Sections {
	return Sections{
		"en": NewTitleSet("References", "External links", "See also", "Notes", "Further reading", "Bibliography", "Sources", "Citations"),
		"de": NewTitleSet("Einzelnachweise", "Weblinks", "Siehe auch", "Literatur", "Anmerkungen", "Quellen"),
		"es": NewTitleSet("Referencias", "Enlaces externos", "Véase también", "Notas", "Bibliografía"),
		"fr": NewTitleSet("Références", "Liens externes", "Voir aussi", "Notes et références", "Bibliographie", "Articles connexes"),
		"it": NewTitleSet("Note", "Collegamenti esterni", "Voci correlate", "Bibliografia", "Altri progetti"),
		"ru": NewTitleSet("Примечания", "Ссылки", "Литература", "См. также"),
	}
}

// sectionsFile is the YAML layout accepted by LoadSections:
//
//	sections:
//	  en: [References, External links]
type sectionsFile struct {
	Sections map[string][]string `yaml:"sections"`
}

// LoadSections reads per-language headings from a YAML file. Languages
// listed in the file replace the defaults; the rest keep them.
func LoadSections(path string) (Sections, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f sectionsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse sections: %w", err)
	}
	out := DefaultSections()
	for lang, titles := range f.Sections {
		key := strings.TrimSpace(lang)
		if tag, err := language.Parse(key); err == nil {
			key = tag.String()
		}
		out[key] = NewTitleSet(titles...)
	}
	return out, nil
}
