package mock

import (
	"context"

	"github.com/fwojciec/agrocostos"
)

var (
	_ agrocostos.ListingBrowser = (*ListingBrowser)(nil)
	_ agrocostos.ListingSession = (*ListingSession)(nil)
	_ agrocostos.Harvester      = (*Harvester)(nil)
)

// ListingBrowser is a mock implementation of agrocostos.ListingBrowser.
type ListingBrowser struct {
	OpenSessionFn func(ctx context.Context) (agrocostos.ListingSession, error)
}

func (b *ListingBrowser) OpenSession(ctx context.Context) (agrocostos.ListingSession, error) {
	return b.OpenSessionFn(ctx)
}

// ListingSession is a mock implementation of agrocostos.ListingSession.
type ListingSession struct {
	SubmitPageFn func(ctx context.Context, season *agrocostos.Season, page int) error
	RowsFn       func(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error)
	CloseFn      func() error
}

func (s *ListingSession) SubmitPage(ctx context.Context, season *agrocostos.Season, page int) error {
	return s.SubmitPageFn(ctx, season, page)
}

func (s *ListingSession) Rows(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error) {
	return s.RowsFn(ctx, season)
}

func (s *ListingSession) Close() error {
	return s.CloseFn()
}

// Harvester is a mock implementation of agrocostos.Harvester.
type Harvester struct {
	HarvestFn func(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error)
}

func (h *Harvester) Harvest(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error) {
	return h.HarvestFn(ctx, season)
}
