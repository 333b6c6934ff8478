package agrocostos

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// DocumentLink is one discovered PDF reference.
type DocumentLink struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	SeasonName string `json:"seasonName,omitempty"`

	// ArchiveID is the numeric abreArc query parameter, when present.
	ArchiveID string `json:"archiveId,omitempty"`

	// Source names the extraction rule that produced the link.
	Source string `json:"source,omitempty"`
}

var (
	schemeRe    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)
	quotedPDFRe = regexp.MustCompile(`(?i)['"]([^'"]*pdf[^'"]*)['"]`)
	archiveIDRe = regexp.MustCompile(`^\d+$`)

	// scriptRe matches a call or assignment taking a quoted argument, as in
	// window.open('/a.pdf') or location.href='/a.pdf'.
	scriptRe = regexp.MustCompile(`[\w$.\]]\s*(?:\(\s*|=\s*)['"]`)
)

// NormalizeLink turns an href or onclick fragment into an absolute URL on
// origin. It returns false when raw holds no usable URL.
func NormalizeLink(raw, origin string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if isScriptFragment(s) {
		m := quotedPDFRe.FindStringSubmatch(s)
		if m == nil {
			return "", false
		}
		s = strings.TrimSpace(m[1])
		if s == "" {
			return "", false
		}
	}

	if schemeRe.MatchString(s) {
		return s, true
	}

	origin = strings.TrimRight(origin, "/")
	if strings.HasPrefix(s, "/") {
		return origin + s, true
	}
	return origin + "/" + s, true
}

// isScriptFragment reports whether s is handler code rather than a plain link.
// Quotes alone do not make a fragment script: "/docs/Costos d'Anis.pdf" is a path.
func isScriptFragment(s string) bool {
	if strings.HasPrefix(strings.ToLower(s), "javascript:") {
		return true
	}
	return scriptRe.MatchString(s)
}

// ArchiveID returns the numeric abreArc query parameter of rawURL.
func ArchiveID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	id := u.Query().Get("abreArc")
	if !archiveIDRe.MatchString(id) {
		return ""
	}
	return id
}

// LinkSet accumulates links in insertion order, rejecting repeated URLs.
// The first link seen for a URL wins. The zero value is ready to use.
type LinkSet struct {
	seen  map[string]struct{}
	links []*DocumentLink
}

// Add appends link unless its URL was already added.
// Returns false if the URL has already been seen.
func (s *LinkSet) Add(link *DocumentLink) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[link.URL]; ok {
		return false
	}
	s.seen[link.URL] = struct{}{}
	s.links = append(s.links, link)
	return true
}

// Len returns the number of distinct links.
func (s *LinkSet) Len() int {
	return len(s.links)
}

// Links returns the accumulated links in insertion order.
func (s *LinkSet) Links() []*DocumentLink {
	if s.links == nil {
		return []*DocumentLink{}
	}
	return s.links
}

// PDFLinkExtractor recovers PDF links from already-fetched markup.
type PDFLinkExtractor interface {
	// ExtractPDFLinks applies every extraction rule to html and returns the
	// merged links, deduplicated by URL. seasonName is copied onto each link.
	ExtractPDFLinks(html string, seasonName string) ([]*DocumentLink, error)
}

// PDFLinkService lists PDFs with plain HTTP requests, without a browser.
type PDFLinkService interface {
	// FindDirectPDFs returns the PDFs linked from the catalog landing page.
	FindDirectPDFs(ctx context.Context) ([]*DocumentLink, error)

	// FindSeasonPDFs returns the PDFs on the first listing page of a season.
	FindSeasonPDFs(ctx context.Context, season *Season) ([]*DocumentLink, error)
}

// Downloader retrieves raw document bytes.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}
