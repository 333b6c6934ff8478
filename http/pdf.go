package http

import (
	"context"

	"github.com/fwojciec/agrocostos"
)

// Ensure PDFLinkService implements agrocostos.PDFLinkService at compile time.
var _ agrocostos.PDFLinkService = (*PDFLinkService)(nil)

// PDFLinkService lists PDFs from static markup fetched by a Client.
type PDFLinkService struct {
	client    *Client
	extractor agrocostos.PDFLinkExtractor
}

// NewPDFLinkService creates a PDFLinkService.
func NewPDFLinkService(client *Client, extractor agrocostos.PDFLinkExtractor) *PDFLinkService {
	return &PDFLinkService{client: client, extractor: extractor}
}

// FindDirectPDFs returns the PDFs linked from the catalog landing page.
func (s *PDFLinkService) FindDirectPDFs(ctx context.Context) ([]*agrocostos.DocumentLink, error) {
	html, err := s.client.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.extractor.ExtractPDFLinks(html, "")
}

// FindSeasonPDFs returns the PDFs on the first listing page of season.
// Returns EINVALID if the season lacks identifying parameters.
func (s *PDFLinkService) FindSeasonPDFs(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error) {
	if err := season.Validate(); err != nil {
		return nil, err
	}
	html, err := s.client.Listing(ctx, season)
	if err != nil {
		return nil, err
	}
	return s.extractor.ExtractPDFLinks(html, season.Name)
}
