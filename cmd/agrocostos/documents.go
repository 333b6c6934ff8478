package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/agrocostos"
)

// Run executes the documents command.
func (c *DocumentsCmd) Run(deps *Dependencies) error {
	res, err := deps.Documents.QueryDocuments(deps.Ctx, &agrocostos.DocumentQuery{
		ApplicationID:    c.ApplicationID,
		PageNumber:       c.PageNumber,
		ParentTrackingID: c.ParentTrackingID,
		ArchiveDocName:   c.ArchiveDocName,
		FolderDocID:      c.FolderDocID,
		MaxPages:         c.MaxPages,
		CropType:         c.Crop,
		Region:           c.Region,
		Tier:             tierOf(c.Complete),
	})
	if err != nil {
		return fail(deps, err)
	}
	return printQueryResult(deps, res)
}

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	res, err := deps.Documents.QueryDocuments(deps.Ctx, &agrocostos.DocumentQuery{
		Season:   c.Season,
		MaxPages: c.MaxPages,
		CropType: c.Crop,
		Region:   c.Region,
		Tier:     tierOf(c.Complete),
	})
	if err != nil {
		return fail(deps, err)
	}
	return printQueryResult(deps, res)
}

// Run executes the report command.
func (c *ReportCmd) Run(deps *Dependencies) error {
	res, err := deps.Documents.Report(deps.Ctx, &agrocostos.DocumentQuery{
		Season:   c.Season,
		CropType: c.Crop,
		Region:   c.Region,
		Tier:     agrocostos.TierInternal,
	})
	if err != nil {
		return fail(deps, err)
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, res)
	}

	r := res.Report
	fmt.Fprintf(deps.Stdout, "%s\n%s\n\n", res.Document.Title, res.Document.URL)
	fmt.Fprintf(deps.Stdout, "Pages: %d  Hash: %s  Candidates: %d\n", r.Metadata.PageCount, res.ContentHash, res.Candidates)
	for _, f := range []struct{ label, value string }{
		{"Cultivo", r.Metadata.Crop},
		{"Zona", r.Metadata.Zone},
		{"Ciclo", r.Metadata.Cycle},
		{"Estado", r.Metadata.State},
		{"Temporada", r.Metadata.Season},
	} {
		if f.value != "" {
			fmt.Fprintf(deps.Stdout, "%s: %s\n", f.label, f.value)
		}
	}
	printSection(deps, "Costs", r.Costs)
	printSection(deps, "Technical memo", r.TechnicalMemo)
	printSection(deps, "Sensitivity analysis", r.Sensitivity)
	return nil
}

func printQueryResult(deps *Dependencies, res *agrocostos.QueryResult) error {
	if deps.JSON {
		return writeJSON(deps.Stdout, res)
	}

	var filters []string
	if res.Filters.CropType != "" {
		filters = append(filters, "crop="+res.Filters.CropType)
	}
	if res.Filters.Region != "" {
		filters = append(filters, "region="+res.Filters.Region)
	}
	fmt.Fprintf(deps.Stdout, "Documents for %s (%d of %d", res.SeasonLabel, res.Filtered, res.Total)
	if len(filters) > 0 {
		fmt.Fprintf(deps.Stdout, ", %s", strings.Join(filters, " "))
	}
	fmt.Fprint(deps.Stdout, "):\n\n")
	printLinks(deps.Stdout, res.Documents)
	return nil
}

func printSection(deps *Dependencies, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(deps.Stdout, "\n%s:\n", title)
	for _, l := range lines {
		fmt.Fprintf(deps.Stdout, "  %s\n", l)
	}
}
