package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/agrocostos"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printLinks(w io.Writer, links []*agrocostos.DocumentLink) {
	for i, l := range links {
		title := l.Title
		if title == "" {
			title = l.URL
		}
		fmt.Fprintf(w, "  %d. %s\n     %s\n", i+1, title, l.URL)
	}
}

// fail reports err on stderr the way every command does and returns it.
func fail(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", agrocostos.ErrorMessage(err))
	return err
}
