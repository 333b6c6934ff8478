package agrocostos

import "context"

// PageSize is the number of rows the listing shows on a full page.
const PageSize = 15

// ListingBrowser opens rendered browsing sessions against the catalog.
type ListingBrowser interface {
	// OpenSession launches an isolated browsing context and navigates to the
	// catalog so the origin issues session cookies.
	// The returned session must be closed.
	OpenSession(ctx context.Context) (ListingSession, error)
}

// ListingSession is one isolated browsing context positioned on the catalog.
// A session is owned by a single harvest and is not safe for concurrent use.
type ListingSession interface {
	// SubmitPage posts the season's listing form for page n from inside the
	// rendered page and waits for the resulting navigation to settle.
	SubmitPage(ctx context.Context, season *Season, page int) error

	// Rows extracts the document rows of the currently loaded listing page.
	// Rows never contains two links with the same URL.
	Rows(ctx context.Context, season *Season) ([]*DocumentLink, error)

	// Close releases the browsing context.
	Close() error
}

// RowParser extracts document rows from rendered listing markup.
type RowParser interface {
	// ParseRows never returns two links with the same URL.
	ParseRows(html string, seasonName string) ([]*DocumentLink, error)
}

// Harvester collects every listing row of a season across pages.
type Harvester interface {
	// Harvest pages through the season's listing. When a page fetch fails it
	// returns the rows collected so far together with an EHARVEST error.
	Harvest(ctx context.Context, season *Season) ([]*DocumentLink, error)
}
