// Package slog provides structured-logging decorators for the agrocostos
// service interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/agrocostos"
)

// Ensure LoggingSeasonService implements agrocostos.SeasonService.
var _ agrocostos.SeasonService = (*LoggingSeasonService)(nil)

// LoggingSeasonService wraps a SeasonService with logging.
type LoggingSeasonService struct {
	next   agrocostos.SeasonService
	logger *slog.Logger
}

// NewLoggingSeasonService creates a new LoggingSeasonService.
func NewLoggingSeasonService(next agrocostos.SeasonService, logger *slog.Logger) *LoggingSeasonService {
	return &LoggingSeasonService{next: next, logger: logger}
}

// FindSeasons delegates to the wrapped service and logs the operation.
func (s *LoggingSeasonService) FindSeasons(ctx context.Context) (seasons []*agrocostos.Season, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find seasons",
			"count", len(seasons),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSeasons(ctx)
}
