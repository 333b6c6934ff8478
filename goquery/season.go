// Package goquery implements the extraction rules that turn catalog markup
// into seasons and document links. Every function here is free of I/O so it
// can run against rendered DOM snapshots and captured fixtures alike.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/agrocostos"
	"golang.org/x/net/html"
)

var _ agrocostos.SeasonParser = (*SeasonParser)(nil)

// seasonSelectors are unioned so markup drift in one place does not hide
// seasons found by another.
var seasonSelectors = []string{
	`ul li a[onclick*="IDgetIdSeguimientoPadre"]`,
	`a[onclick*="IDgetIdSeguimientoPadre"]`,
	`a[onclick*="IDgetNombre_Arc_Doc"]`,
	`a[onclick*="IDIdAplicacion"][onclick*="46"]`,
}

// handlerParam builds a pattern for a parameter assigned in handler script,
// accepting single- or double-quoted values.
func handlerParam(name, value string) *regexp.Regexp {
	return regexp.MustCompile(name + `.*?value\s*=\s*(?:'(` + value + `)'|"(` + value + `)")`)
}

var (
	parentTrackingRe = handlerParam("IDgetIdSeguimientoPadre", `\d+`)
	archiveDocRe     = handlerParam("IDgetNombre_Arc_Doc", `[^'"]+`)
	folderDocRe      = handlerParam("IDgetIdCarpDoc", `\d+`)
	applicationRe    = handlerParam("IDIdAplicacion", `\d+`)
	pageNumberRe     = handlerParam("IDNumPag", `\d+`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// SeasonParser extracts seasons from the rendered catalog page.
type SeasonParser struct {
	allow []string
}

// NewSeasonParser creates a SeasonParser that accepts controls whose text
// matches one of the allow-listed season names.
func NewSeasonParser(allow []string) *SeasonParser {
	return &SeasonParser{allow: allow}
}

// ParseSeasons returns one Season per allow-listed season control in html,
// in document order. Seasons lacking identifying parameters are still
// returned so callers can see them; check Usable before fetching.
func (p *SeasonParser) ParseSeasons(htmlStr string) ([]*agrocostos.Season, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, agrocostos.Errorf(agrocostos.EINVALID, "failed to parse HTML: %v", err)
	}

	seasons := []*agrocostos.Season{}
	for _, sel := range seasonCandidates(doc) {
		name := strings.TrimSpace(sel.Text())
		if !agrocostos.MatchesAllowList(name, p.allow) {
			continue
		}
		handler, _ := sel.Attr("onclick")
		seasons = append(seasons, parseHandler(name, handler))
	}
	return seasons, nil
}

// seasonCandidates returns the union of every selector strategy,
// deduplicated by node identity and kept in document order.
func seasonCandidates(doc *goquery.Document) []*goquery.Selection {
	hit := make(map[*html.Node]bool)
	for _, selector := range seasonSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			hit[sel.Get(0)] = true
		})
	}

	var out []*goquery.Selection
	doc.Find("a[onclick]").Each(func(_ int, sel *goquery.Selection) {
		if hit[sel.Get(0)] {
			out = append(out, sel)
		}
	})
	return out
}

// parseHandler recovers the hidden form parameters from handler script.
func parseHandler(name, handler string) *agrocostos.Season {
	clean := strings.TrimSpace(whitespaceRe.ReplaceAllString(handler, " "))

	s := &agrocostos.Season{
		Name:             name,
		ApplicationID:    captured(applicationRe, clean),
		PageNumber:       captured(pageNumberRe, clean),
		ParentTrackingID: captured(parentTrackingRe, clean),
		ArchiveDocName:   captured(archiveDocRe, clean),
		FolderDocID:      captured(folderDocRe, clean),
	}
	if s.ApplicationID == "" {
		s.ApplicationID = agrocostos.DefaultApplicationID
	}
	if s.PageNumber == "" {
		s.PageNumber = agrocostos.DefaultPageNumber
	}
	return s
}

// captured returns whichever quoted alternative matched.
func captured(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}
