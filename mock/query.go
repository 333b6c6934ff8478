package mock

import (
	"context"

	"github.com/fwojciec/agrocostos"
)

var (
	_ agrocostos.DocumentService = (*DocumentService)(nil)
	_ agrocostos.PDFExtractor    = (*PDFExtractor)(nil)
)

// DocumentService is a mock implementation of agrocostos.DocumentService.
type DocumentService struct {
	QueryDocumentsFn func(ctx context.Context, q *agrocostos.DocumentQuery) (*agrocostos.QueryResult, error)
	ReportFn         func(ctx context.Context, q *agrocostos.DocumentQuery) (*agrocostos.ReportResult, error)
}

func (s *DocumentService) QueryDocuments(ctx context.Context, q *agrocostos.DocumentQuery) (*agrocostos.QueryResult, error) {
	return s.QueryDocumentsFn(ctx, q)
}

func (s *DocumentService) Report(ctx context.Context, q *agrocostos.DocumentQuery) (*agrocostos.ReportResult, error) {
	return s.ReportFn(ctx, q)
}

// PDFExtractor is a mock implementation of agrocostos.PDFExtractor.
type PDFExtractor struct {
	ExtractFn func(data []byte) (*agrocostos.PDFText, error)
}

func (e *PDFExtractor) Extract(data []byte) (*agrocostos.PDFText, error) {
	return e.ExtractFn(data)
}
