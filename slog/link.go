package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/agrocostos"
)

var (
	_ agrocostos.PDFLinkService = (*LoggingPDFLinkService)(nil)
	_ agrocostos.Downloader     = (*LoggingDownloader)(nil)
)

// LoggingPDFLinkService wraps a PDFLinkService with logging.
type LoggingPDFLinkService struct {
	next   agrocostos.PDFLinkService
	logger *slog.Logger
}

// NewLoggingPDFLinkService creates a new LoggingPDFLinkService.
func NewLoggingPDFLinkService(next agrocostos.PDFLinkService, logger *slog.Logger) *LoggingPDFLinkService {
	return &LoggingPDFLinkService{next: next, logger: logger}
}

// FindDirectPDFs delegates to the wrapped service and logs the operation.
func (s *LoggingPDFLinkService) FindDirectPDFs(ctx context.Context) (links []*agrocostos.DocumentLink, err error) {
	defer func(begin time.Time) {
		s.logger.Info("direct pdfs",
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDirectPDFs(ctx)
}

// FindSeasonPDFs delegates to the wrapped service and logs the operation.
func (s *LoggingPDFLinkService) FindSeasonPDFs(ctx context.Context, season *agrocostos.Season) (links []*agrocostos.DocumentLink, err error) {
	defer func(begin time.Time) {
		s.logger.Info("season pdfs",
			"season", season.Name,
			"folder", season.FolderDocID,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSeasonPDFs(ctx, season)
}

// LoggingDownloader wraps a Downloader with debug logging.
type LoggingDownloader struct {
	next   agrocostos.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next agrocostos.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the transfer.
func (d *LoggingDownloader) Download(ctx context.Context, url string) (data []byte, err error) {
	defer func(begin time.Time) {
		d.logger.Debug("download",
			"url", url,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, url)
}
