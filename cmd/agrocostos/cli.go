package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/agrocostos"
	acviper "github.com/fwojciec/agrocostos/viper"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Config     *acviper.Config
	JSON       bool
	Seasons    agrocostos.SeasonService
	PDFs       agrocostos.PDFLinkService
	Documents  agrocostos.DocumentService
	Harvester  agrocostos.Harvester
	Downloader agrocostos.Downloader
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"path" env:"AGROCOSTOS_CONFIG" help:"Config file (YAML, TOML or JSON)"`
	Verbose bool   `short:"v" help:"Log debug output"`
	JSON    bool   `help:"Print results as JSON"`

	Seasons   SeasonsCmd   `cmd:"" help:"List the seasons available on the catalog"`
	Direct    DirectCmd    `cmd:"" help:"List PDFs linked from the catalog page"`
	PDFs      PDFsCmd      `cmd:"" name:"pdfs" help:"List PDFs of one season via its static listing"`
	All       AllCmd       `cmd:"" help:"List direct PDFs and the PDFs of every season"`
	Documents DocumentsCmd `cmd:"" help:"Harvest a season's paginated listing by its parameters"`
	Query     QueryCmd     `cmd:"" help:"Harvest a season by name and filter by crop and region"`
	Report    ReportCmd    `cmd:"" help:"Parse the first document matching a query"`
	Serve     ServeCmd     `cmd:"" help:"Serve the HTTP API"`
}

// SeasonsCmd is the "seasons" subcommand.
type SeasonsCmd struct{}

// DirectCmd is the "direct" subcommand.
type DirectCmd struct{}

// PDFsCmd is the "pdfs" subcommand.
type PDFsCmd struct {
	FolderDocID string `arg:"" name:"folder-doc-id" help:"Season folder document id"`
}

// AllCmd is the "all" subcommand.
type AllCmd struct{}

// DocumentsCmd is the "documents" subcommand.
type DocumentsCmd struct {
	ApplicationID    string `name:"application-id" default:"46" help:"Application id"`
	PageNumber       string `name:"page-number" help:"Starting page number"`
	ParentTrackingID string `name:"parent-tracking-id" required:"" help:"Parent tracking id"`
	ArchiveDocName   string `name:"archive-doc-name" required:"" help:"Archive document name"`
	FolderDocID      string `name:"folder-doc-id" required:"" help:"Folder document id"`
	MaxPages         int    `name:"max-pages" help:"Page cap (default depends on --complete)"`
	Complete         bool   `help:"Use the internal page cap"`
	Crop             string `help:"Crop type filter (text or regex)"`
	Region           string `help:"Region filter (text or regex)"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Season   string `arg:"" help:"Season name as listed by 'agrocostos seasons'"`
	Crop     string `help:"Crop type filter (text or regex)"`
	Region   string `help:"Region filter (text or regex)"`
	MaxPages int    `name:"max-pages" help:"Page cap"`
	Complete bool   `help:"Use the internal page cap"`
}

// ReportCmd is the "report" subcommand.
type ReportCmd struct {
	Season string `arg:"" help:"Season name as listed by 'agrocostos seasons'"`
	Crop   string `required:"" help:"Crop type filter (text or regex)"`
	Region string `help:"Region filter (text or regex)"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides config)"`
}

func tierOf(complete bool) agrocostos.Tier {
	if complete {
		return agrocostos.TierInternal
	}
	return agrocostos.TierPublic
}
