package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/agrocostos"
)

// Ensure LoggingDocumentService implements agrocostos.DocumentService.
var _ agrocostos.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with logging.
type LoggingDocumentService struct {
	next   agrocostos.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next agrocostos.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// QueryDocuments delegates to the wrapped service and logs the query.
func (s *LoggingDocumentService) QueryDocuments(ctx context.Context, q *agrocostos.DocumentQuery) (res *agrocostos.QueryResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"season", querySeason(q),
			"cropType", q.CropType,
			"region", q.Region,
			"duration", time.Since(begin),
		}
		if res != nil {
			attrs = append(attrs, "total", res.Total, "filtered", res.Filtered)
		}
		if err != nil {
			attrs = append(attrs, "code", agrocostos.ErrorCode(err), "err", err)
		}
		s.logger.Info("query documents", attrs...)
	}(time.Now())
	return s.next.QueryDocuments(ctx, q)
}

// Report delegates to the wrapped service and logs the report.
func (s *LoggingDocumentService) Report(ctx context.Context, q *agrocostos.DocumentQuery) (res *agrocostos.ReportResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"season", querySeason(q),
			"cropType", q.CropType,
			"duration", time.Since(begin),
		}
		if res != nil {
			attrs = append(attrs, "document", res.Document.URL, "hash", res.ContentHash)
		}
		if err != nil {
			attrs = append(attrs, "code", agrocostos.ErrorCode(err), "err", err)
		}
		s.logger.Info("report", attrs...)
	}(time.Now())
	return s.next.Report(ctx, q)
}

func querySeason(q *agrocostos.DocumentQuery) string {
	if q.Season != "" {
		return q.Season
	}
	return q.ArchiveDocName
}
