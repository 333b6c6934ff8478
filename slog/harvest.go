package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/agrocostos"
)

// Ensure LoggingHarvester implements agrocostos.Harvester.
var _ agrocostos.Harvester = (*LoggingHarvester)(nil)

// LoggingHarvester wraps a Harvester and logs each season harvest.
// Partial harvests are logged with the rows they kept.
type LoggingHarvester struct {
	next   agrocostos.Harvester
	logger *slog.Logger
}

// NewLoggingHarvester creates a new LoggingHarvester.
func NewLoggingHarvester(next agrocostos.Harvester, logger *slog.Logger) *LoggingHarvester {
	return &LoggingHarvester{next: next, logger: logger}
}

// Harvest delegates to the wrapped harvester and logs the operation.
func (h *LoggingHarvester) Harvest(ctx context.Context, season *agrocostos.Season) (links []*agrocostos.DocumentLink, err error) {
	defer func(begin time.Time) {
		h.logger.Info("harvest",
			"season", season.Name,
			"maxPages", season.PageLimit(),
			"rows", len(links),
			"duration", time.Since(begin),
			"code", agrocostos.ErrorCode(err),
			"err", err,
		)
	}(time.Now())
	return h.next.Harvest(ctx, season)
}
