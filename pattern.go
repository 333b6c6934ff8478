package agrocostos

import (
	"regexp"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// metaRe matches any character with special meaning in a regular expression.
var metaRe = regexp.MustCompile(`[.*+?^${}()|\[\]\\]`)

// Pattern is a case-insensitive, diacritic-insensitive text matcher built
// from caller input.
type Pattern struct {
	source  string
	literal bool
	re      *regexp.Regexp
}

// CompilePattern builds a Pattern from s. Input without regex
// metacharacters is matched literally as a substring; anything else is
// compiled verbatim as a regular expression. Invalid syntax returns a
// PatternError carrying s.
func CompilePattern(s string) (*Pattern, error) {
	folded := Fold(s)
	literal := !metaRe.MatchString(folded)

	expr := folded
	if literal {
		expr = metaRe.ReplaceAllString(folded, `\$0`)
	}

	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, &PatternError{Input: s, Err: err}
	}
	return &Pattern{source: s, literal: literal, re: re}, nil
}

// CompileFilter is like CompilePattern but tags a failure with the caller
// field that supplied s.
func CompileFilter(field, s string) (*Pattern, error) {
	p, err := CompilePattern(s)
	if err != nil {
		err.(*PatternError).Field = field
		return nil, err
	}
	return p, nil
}

// Match reports whether text matches the pattern.
func (p *Pattern) Match(text string) bool {
	return p.re.MatchString(Fold(text))
}

// Source returns the caller input the pattern was built from.
func (p *Pattern) Source() string {
	return p.source
}

// Literal reports whether the input was treated as plain text.
func (p *Pattern) Literal() bool {
	return p.literal
}

// String returns the compiled expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// Fold strips combining marks so "Maíz" and "maiz" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FilterLinks returns the links whose title matches every non-nil pattern.
func FilterLinks(links []*DocumentLink, patterns ...*Pattern) []*DocumentLink {
	out := make([]*DocumentLink, 0, len(links))
	for _, l := range links {
		if matchesAll(l.Title, patterns) {
			out = append(out, l)
		}
	}
	return out
}

func matchesAll(text string, patterns []*Pattern) bool {
	for _, p := range patterns {
		if p != nil && !p.Match(text) {
			return false
		}
	}
	return true
}
