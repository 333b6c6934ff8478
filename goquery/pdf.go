package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/agrocostos"
)

var _ agrocostos.PDFLinkExtractor = (*PDFExtractor)(nil)

// Rule is one PDF extraction strategy. A selector rule reads the matched
// anchor directly. A container rule (Link set) takes its title from the
// matched element and its URL from the first descendant matching Link.
type Rule struct {
	Name     string
	Selector string
	Link     string
}

// DefaultRules lists the extraction strategies for static catalog pages,
// most specific first.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "href-pdf-ext", Selector: `a[href*=".pdf"]`},
		{Name: "href-pdf-ext-upper", Selector: `a[href*=".PDF"]`},
		{Name: "href-pdf", Selector: `a[href*="pdf"]`},
		{Name: "href-pdf-upper", Selector: `a[href*="PDF"]`},
		{Name: "onclick-pdf", Selector: `a[onclick*="pdf"]`},
		{Name: "onclick-pdf-upper", Selector: `a[onclick*="PDF"]`},
		{Name: "container", Selector: `tr, .pdf-link, .documento, .archivo`, Link: `a[href*="pdf"], a[href*="PDF"]`},
	}
}

// minContainerText is the shortest container text accepted as a title.
const minContainerText = 4

// PDFExtractor applies an ordered list of rules to a page and merges the
// results. When two rules yield the same URL the earlier rule wins.
type PDFExtractor struct {
	origin string
	rules  []Rule
}

// NewPDFExtractor creates a PDFExtractor. DefaultRules are used when no
// rules are given.
func NewPDFExtractor(origin string, rules ...Rule) *PDFExtractor {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &PDFExtractor{origin: origin, rules: rules}
}

// ExtractPDFLinks implements agrocostos.PDFLinkExtractor.
func (e *PDFExtractor) ExtractPDFLinks(htmlStr string, seasonName string) ([]*agrocostos.DocumentLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, agrocostos.Errorf(agrocostos.EINVALID, "failed to parse HTML: %v", err)
	}

	var set agrocostos.LinkSet
	for _, rule := range e.rules {
		doc.Find(rule.Selector).Each(func(_ int, sel *goquery.Selection) {
			var link *agrocostos.DocumentLink
			if rule.Link != "" {
				link = e.fromContainer(sel, rule)
			} else {
				link = e.fromAnchor(sel, rule)
			}
			if link == nil {
				return
			}
			link.SeasonName = seasonName
			set.Add(link)
		})
	}
	return set.Links(), nil
}

func (e *PDFExtractor) fromAnchor(sel *goquery.Selection, rule Rule) *agrocostos.DocumentLink {
	title := strings.TrimSpace(sel.Text())
	if title == "" {
		return nil
	}
	for _, attr := range []string{"href", "onclick"} {
		raw, _ := sel.Attr(attr)
		if link := e.link(title, raw, rule.Name); link != nil {
			return link
		}
	}
	return nil
}

func (e *PDFExtractor) fromContainer(sel *goquery.Selection, rule Rule) *agrocostos.DocumentLink {
	title := strings.TrimSpace(whitespaceRe.ReplaceAllString(sel.Text(), " "))
	if len([]rune(title)) < minContainerText {
		return nil
	}
	a := sel.Find(rule.Link).First()
	if a.Length() == 0 {
		return nil
	}
	raw, _ := a.Attr("href")
	return e.link(title, raw, rule.Name)
}

func (e *PDFExtractor) link(title, raw, source string) *agrocostos.DocumentLink {
	u, ok := agrocostos.NormalizeLink(raw, e.origin)
	if !ok || !strings.Contains(strings.ToLower(u), "pdf") {
		return nil
	}
	return &agrocostos.DocumentLink{
		Title:     title,
		URL:       u,
		ArchiveID: agrocostos.ArchiveID(u),
		Source:    source,
	}
}
