package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/agrocostos"
	"github.com/fwojciec/agrocostos/harvest"
)

// AllResult is the combined listing of direct and per-season PDFs.
type AllResult struct {
	Total  int                        `json:"total"`
	PDFs   []*agrocostos.DocumentLink `json:"pdfs"`
	Failed []harvest.SeasonFailure    `json:"failed,omitempty"`
}

// Run executes the direct command.
func (c *DirectCmd) Run(deps *Dependencies) error {
	links, err := deps.PDFs.FindDirectPDFs(deps.Ctx)
	if err != nil {
		return fail(deps, err)
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, links)
	}
	fmt.Fprintf(deps.Stdout, "Direct PDFs (%d total):\n\n", len(links))
	printLinks(deps.Stdout, links)
	return nil
}

// Run executes the pdfs command.
func (c *PDFsCmd) Run(deps *Dependencies) error {
	links, err := seasonPDFs(deps.Ctx, deps, c.FolderDocID)
	if err != nil {
		return fail(deps, err)
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, links)
	}
	fmt.Fprintf(deps.Stdout, "PDFs for folder %s (%d total):\n\n", c.FolderDocID, len(links))
	printLinks(deps.Stdout, links)
	return nil
}

// Run executes the all command.
func (c *AllCmd) Run(deps *Dependencies) error {
	res, err := allPDFs(deps.Ctx, deps)
	if err != nil {
		return fail(deps, err)
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, res)
	}
	fmt.Fprintf(deps.Stdout, "All PDFs (%d total):\n\n", res.Total)
	printLinks(deps.Stdout, res.PDFs)
	for _, f := range res.Failed {
		fmt.Fprintf(deps.Stderr, "warning: %s: %s\n", f.Season.Name, f.Reason)
	}
	return nil
}

// seasonPDFs finds the season by folder id and fetches its static listing.
func seasonPDFs(ctx context.Context, deps *Dependencies, folderDocID string) ([]*agrocostos.DocumentLink, error) {
	seasons, err := deps.Seasons.FindSeasons(ctx)
	if err != nil {
		return nil, err
	}
	season, err := agrocostos.FindSeasonByFolder(seasons, folderDocID)
	if err != nil {
		return nil, err
	}
	return deps.PDFs.FindSeasonPDFs(ctx, season)
}

// allPDFs lists the direct PDFs followed by each season's static listing.
// A season whose listing fails is reported in Failed and skipped.
func allPDFs(ctx context.Context, deps *Dependencies) (*AllResult, error) {
	seasons, err := deps.Seasons.FindSeasons(ctx)
	if err != nil {
		return nil, err
	}
	direct, err := deps.PDFs.FindDirectPDFs(ctx)
	if err != nil {
		return nil, err
	}

	batch := &harvest.Batch{
		Harvester: harvest.HarvesterFunc(deps.PDFs.FindSeasonPDFs),
		Logger:    deps.Logger,
	}
	res, err := batch.Run(ctx, seasons, nil)
	if err != nil {
		return nil, err
	}

	var set agrocostos.LinkSet
	for _, l := range direct {
		set.Add(l)
	}
	for _, l := range seasonLinks(res) {
		set.Add(l)
	}
	return &AllResult{Total: set.Len(), PDFs: set.Links(), Failed: res.Failed}, nil
}

// seasonLinks drops the partial rows of failed seasons; a static listing
// either parses or fails outright.
func seasonLinks(res *harvest.BatchResult) []*agrocostos.DocumentLink {
	links := []*agrocostos.DocumentLink{}
	for _, s := range res.Succeeded {
		links = append(links, s.Links...)
	}
	return links
}
