package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/agrocostos"
)

var _ agrocostos.RowParser = (*ListingParser)(nil)

// rowSelector matches "open document" links inside the results table.
const rowSelector = `table.table-bordered a[href*="abrirArchivo.jsp"]`

// paginationRe matches link text made only of pagination glyphs.
var paginationRe = regexp.MustCompile(`^[\d«»\s]+$`)

// ListingParser extracts document rows from a rendered listing page.
type ListingParser struct {
	origin string
}

// NewListingParser creates a ListingParser that resolves links against origin.
func NewListingParser(origin string) *ListingParser {
	return &ListingParser{origin: origin}
}

// ParseRows returns the document rows of one listing page. Pagination links
// are skipped and repeated URLs are dropped.
func (p *ListingParser) ParseRows(htmlStr string, seasonName string) ([]*agrocostos.DocumentLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, agrocostos.Errorf(agrocostos.EINVALID, "failed to parse HTML: %v", err)
	}

	var set agrocostos.LinkSet
	doc.Find(rowSelector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		href, _ := sel.Attr("href")
		if title == "" || href == "" || paginationRe.MatchString(title) {
			return
		}

		u, ok := agrocostos.NormalizeLink(href, p.origin)
		if !ok {
			return
		}

		set.Add(&agrocostos.DocumentLink{
			Title:      title,
			URL:        u,
			SeasonName: seasonName,
			ArchiveID:  agrocostos.ArchiveID(u),
			Source:     "listing",
		})
	})
	return set.Links(), nil
}
