package harvest

import (
	"context"
	"log/slog"
	"slices"

	"github.com/fwojciec/agrocostos"
)

// Ensure SeasonCatalog implements agrocostos.SeasonService at compile time.
var _ agrocostos.SeasonService = (*SeasonCatalog)(nil)

// SeasonCatalog serves usable seasons. Discovery failures never reach the
// caller: when the finder errors or yields nothing usable, the fallback
// list is returned instead.
type SeasonCatalog struct {
	Finder agrocostos.SeasonFinder

	// Fallback is served in degraded mode. Nil means agrocostos.DefaultSeasons().
	Fallback []*agrocostos.Season

	Logger *slog.Logger
}

// FindSeasons implements agrocostos.SeasonService. It only fails when ctx
// is done.
func (c *SeasonCatalog) FindSeasons(ctx context.Context) ([]*agrocostos.Season, error) {
	logger := loggerFor(ctx, c.Logger)

	found, err := c.Finder.FindSeasons(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("season discovery failed, using fallback",
			"code", agrocostos.EDISCOVERY,
			"err", err,
		)
		return c.fallback(), nil
	}

	usable := make([]*agrocostos.Season, 0, len(found))
	for _, s := range found {
		if s.Usable() {
			usable = append(usable, s)
			continue
		}
		logger.Debug("dropping unusable season", "season", s.Name, "err", s.Validate())
	}
	if len(usable) == 0 {
		logger.Warn("no usable seasons discovered, using fallback",
			"code", agrocostos.EDISCOVERY,
			"found", len(found),
		)
		return c.fallback(), nil
	}
	return usable, nil
}

func (c *SeasonCatalog) fallback() []*agrocostos.Season {
	if c.Fallback == nil {
		return agrocostos.DefaultSeasons()
	}
	return slices.Clone(c.Fallback)
}
