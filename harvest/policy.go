// Package harvest orchestrates season discovery, multi-page listing
// harvests, and document queries on top of the browser and HTTP layers.
package harvest

import "github.com/fwojciec/agrocostos"

// TerminationPolicy decides when a paginated harvest stops. The listing
// gives no explicit last-page signal, so the decision is heuristic.
type TerminationPolicy interface {
	// More reports whether the page after page n should be fetched, given
	// that page n yielded rows rows and the season allows maxPages pages.
	More(n, rows, maxPages int) bool
}

// RowCountPolicy stops on the first short page or at the page cap.
// A full page holds PageSize rows; zero means agrocostos.PageSize.
type RowCountPolicy struct {
	PageSize int
}

// More implements TerminationPolicy.
func (p RowCountPolicy) More(n, rows, maxPages int) bool {
	size := p.PageSize
	if size <= 0 {
		size = agrocostos.PageSize
	}
	return rows >= size && n < maxPages
}
