package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/agrocostos"
)

// Ensure LoggingListingBrowser implements agrocostos.ListingBrowser.
var _ agrocostos.ListingBrowser = (*LoggingListingBrowser)(nil)

// LoggingListingBrowser wraps a ListingBrowser with debug logging of every
// session step.
type LoggingListingBrowser struct {
	next   agrocostos.ListingBrowser
	logger *slog.Logger
}

// NewLoggingListingBrowser creates a new LoggingListingBrowser.
func NewLoggingListingBrowser(next agrocostos.ListingBrowser, logger *slog.Logger) *LoggingListingBrowser {
	return &LoggingListingBrowser{next: next, logger: logger}
}

// OpenSession logs session setup and wraps the returned session.
func (b *LoggingListingBrowser) OpenSession(ctx context.Context) (session agrocostos.ListingSession, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("open session",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	session, err = b.next.OpenSession(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingSession{next: session, logger: b.logger}, nil
}

type loggingSession struct {
	next   agrocostos.ListingSession
	logger *slog.Logger
}

func (s *loggingSession) SubmitPage(ctx context.Context, season *agrocostos.Season, n int) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("submit page",
			"season", season.Name,
			"page", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SubmitPage(ctx, season, n)
}

func (s *loggingSession) Rows(ctx context.Context, season *agrocostos.Season) (rows []*agrocostos.DocumentLink, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("rows",
			"season", season.Name,
			"rows", len(rows),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Rows(ctx, season)
}

func (s *loggingSession) Close() error {
	return s.next.Close()
}
