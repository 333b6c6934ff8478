package mock

import (
	"context"

	"github.com/fwojciec/agrocostos"
)

var (
	_ agrocostos.SeasonFinder  = (*SeasonFinder)(nil)
	_ agrocostos.SeasonService = (*SeasonFinder)(nil)
)

// SeasonFinder is a mock implementation of agrocostos.SeasonFinder and
// agrocostos.SeasonService.
type SeasonFinder struct {
	FindSeasonsFn func(ctx context.Context) ([]*agrocostos.Season, error)
}

func (f *SeasonFinder) FindSeasons(ctx context.Context) ([]*agrocostos.Season, error) {
	return f.FindSeasonsFn(ctx)
}
