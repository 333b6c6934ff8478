package harvest

import (
	"context"
	"log/slog"

	"github.com/fwojciec/agrocostos"
)

// Ensure Harvester implements agrocostos.Harvester at compile time.
var _ agrocostos.Harvester = (*Harvester)(nil)

// Harvester pages through a season's listing inside one browsing session.
type Harvester struct {
	Browser agrocostos.ListingBrowser

	// Policy decides when to stop. Nil means RowCountPolicy{}.
	Policy TerminationPolicy

	Logger *slog.Logger
}

// Harvest implements agrocostos.Harvester. Rows accumulate in page order
// and are not deduplicated across pages. A failed step ends the harvest and
// returns the rows collected so far along with a *agrocostos.HarvestError,
// unless ctx is done, in which case ctx.Err() is returned unwrapped.
func (h *Harvester) Harvest(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error) {
	if err := season.Validate(); err != nil {
		return nil, err
	}

	logger := loggerFor(ctx, h.Logger).With("season", season.Name)
	policy := h.Policy
	if policy == nil {
		policy = RowCountPolicy{}
	}

	links := []*agrocostos.DocumentLink{}

	session, err := h.Browser.OpenSession(ctx)
	if err != nil {
		return links, h.abort(ctx, logger, season, 0, links, err)
	}
	defer session.Close()

	limit := season.PageLimit()
	for n := 1; ; n++ {
		if err := session.SubmitPage(ctx, season, n); err != nil {
			return links, h.abort(ctx, logger, season, n, links, err)
		}
		rows, err := session.Rows(ctx, season)
		if err != nil {
			return links, h.abort(ctx, logger, season, n, links, err)
		}
		links = append(links, rows...)
		logger.Debug("harvested page", "page", n, "rows", len(rows), "total", len(links))

		if !policy.More(n, len(rows), limit) {
			return links, nil
		}
	}
}

func (h *Harvester) abort(ctx context.Context, logger *slog.Logger, season *agrocostos.Season, page int, links []*agrocostos.DocumentLink, err error) error {
	logger.Warn("harvest aborted",
		"page", page,
		"rows", len(links),
		"err", err,
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &agrocostos.HarvestError{Season: season.Name, Page: page, Err: err}
}

// HarvesterFunc adapts a function to agrocostos.Harvester, so single-page
// sources such as a static listing can feed a Batch.
type HarvesterFunc func(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error)

// Harvest calls f.
func (f HarvesterFunc) Harvest(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error) {
	return f(ctx, season)
}
