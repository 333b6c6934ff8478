package harvest

import (
	"context"
	"log/slog"

	"github.com/fwojciec/agrocostos"
)

// SeasonLinks pairs a season with the links harvested for it.
type SeasonLinks struct {
	Season *agrocostos.Season         `json:"season"`
	Links  []*agrocostos.DocumentLink `json:"links"`
}

// SeasonFailure records a season whose harvest failed. Links holds any
// rows collected before the failure.
type SeasonFailure struct {
	Season *agrocostos.Season         `json:"season"`
	Links  []*agrocostos.DocumentLink `json:"links,omitempty"`
	Reason string                     `json:"error"`
	Err    error                      `json:"-"`
}

// BatchResult is the outcome of a multi-season harvest.
type BatchResult struct {
	Succeeded []SeasonLinks   `json:"succeeded"`
	Failed    []SeasonFailure `json:"failed"`
}

// Links returns every harvested link in season order, including the
// partial rows of failed seasons.
func (r *BatchResult) Links() []*agrocostos.DocumentLink {
	links := []*agrocostos.DocumentLink{}
	for _, s := range r.Succeeded {
		links = append(links, s.Links...)
	}
	for _, f := range r.Failed {
		links = append(links, f.Links...)
	}
	return links
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Season    string
	Rows      int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Batch harvests seasons one at a time. Seasons run sequentially to bound
// load on the origin, and one season's failure never stops the others.
type Batch struct {
	Harvester agrocostos.Harvester
	Logger    *slog.Logger
}

// Run harvests every season. It only returns an error when ctx is done;
// per-season failures are reported in BatchResult.Failed.
func (b *Batch) Run(ctx context.Context, seasons []*agrocostos.Season, progress ProgressFunc) (*BatchResult, error) {
	logger := loggerFor(ctx, b.Logger)
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	result := &BatchResult{
		Succeeded: []SeasonLinks{},
		Failed:    []SeasonFailure{},
	}
	progress(ProgressEvent{Type: ProgressStarted, Total: len(seasons)})

	for i, season := range seasons {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		links, err := b.Harvester.Harvest(ctx, season)
		if err != nil {
			logger.Warn("season failed", "season", season.Name, "rows", len(links), "err", err)
			result.Failed = append(result.Failed, SeasonFailure{
				Season: season,
				Links:  links,
				Reason: agrocostos.ErrorMessage(err),
				Err:    err,
			})
			progress(ProgressEvent{Type: ProgressFailed, Completed: i + 1, Total: len(seasons), Season: season.Name, Rows: len(links), Error: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, SeasonLinks{Season: season, Links: links})
		progress(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: len(seasons), Season: season.Name, Rows: len(links)})
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: len(seasons), Total: len(seasons)})
	return result, nil
}
