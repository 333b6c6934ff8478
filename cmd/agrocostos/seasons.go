package main

import (
	"fmt"
)

// Run executes the seasons command.
func (c *SeasonsCmd) Run(deps *Dependencies) error {
	seasons, err := deps.Seasons.FindSeasons(deps.Ctx)
	if err != nil {
		return fail(deps, err)
	}

	if deps.JSON {
		return writeJSON(deps.Stdout, seasons)
	}

	for _, s := range seasons {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", s.FolderDocID, s.Name, s.ArchiveDocName)
	}
	return nil
}
