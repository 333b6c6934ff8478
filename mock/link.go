package mock

import (
	"context"

	"github.com/fwojciec/agrocostos"
)

var (
	_ agrocostos.PDFLinkExtractor = (*PDFLinkExtractor)(nil)
	_ agrocostos.PDFLinkService   = (*PDFLinkService)(nil)
	_ agrocostos.Downloader       = (*Downloader)(nil)
)

// PDFLinkExtractor is a mock implementation of agrocostos.PDFLinkExtractor.
type PDFLinkExtractor struct {
	ExtractPDFLinksFn func(html string, seasonName string) ([]*agrocostos.DocumentLink, error)
}

func (e *PDFLinkExtractor) ExtractPDFLinks(html string, seasonName string) ([]*agrocostos.DocumentLink, error) {
	return e.ExtractPDFLinksFn(html, seasonName)
}

// PDFLinkService is a mock implementation of agrocostos.PDFLinkService.
type PDFLinkService struct {
	FindDirectPDFsFn func(ctx context.Context) ([]*agrocostos.DocumentLink, error)
	FindSeasonPDFsFn func(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error)
}

func (s *PDFLinkService) FindDirectPDFs(ctx context.Context) ([]*agrocostos.DocumentLink, error) {
	return s.FindDirectPDFsFn(ctx)
}

func (s *PDFLinkService) FindSeasonPDFs(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error) {
	return s.FindSeasonPDFsFn(ctx, season)
}

// Downloader is a mock implementation of agrocostos.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	return d.DownloadFn(ctx, url)
}
