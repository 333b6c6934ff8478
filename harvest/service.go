package harvest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/agrocostos"
)

// Ensure Service implements agrocostos.DocumentService at compile time.
var _ agrocostos.DocumentService = (*Service)(nil)

// Service answers document queries: it resolves the season, harvests its
// listing, and filters the rows by crop type and region.
type Service struct {
	Seasons    agrocostos.SeasonService
	Harvester  agrocostos.Harvester
	Downloader agrocostos.Downloader
	Extractor  agrocostos.PDFExtractor
	Logger     *slog.Logger

	// PublicMaxPages and InternalMaxPages override the per-tier page caps
	// applied when a query sets none. Zero keeps the tier default.
	PublicMaxPages   int
	InternalMaxPages int
}

// QueryDocuments implements agrocostos.DocumentService. Filters are
// compiled before any scraping starts. A harvest that fails part way is
// logged and its partial rows are returned.
func (s *Service) QueryDocuments(ctx context.Context, q *agrocostos.DocumentQuery) (*agrocostos.QueryResult, error) {
	ctx = WithRunID(ctx)
	logger := loggerFor(ctx, s.Logger)

	if err := q.Validate(); err != nil {
		return nil, err
	}
	q = s.withPageCap(q)

	crop, err := compileFilter("cropType", q.CropType)
	if err != nil {
		return nil, err
	}
	region, err := compileFilter("region", q.Region)
	if err != nil {
		return nil, err
	}

	season, err := s.resolveSeason(ctx, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.Harvester.Harvest(ctx, season)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		if agrocostos.ErrorCode(err) != agrocostos.EHARVEST {
			return nil, err
		}
		logger.Warn("returning partial harvest", "season", season.Name, "rows", len(rows), "err", err)
	}
	if rows == nil {
		rows = []*agrocostos.DocumentLink{}
	}

	docs := agrocostos.FilterLinks(rows, crop, region)
	logger.Info("query",
		"season", season.Name,
		"total", len(rows),
		"filtered", len(docs),
	)

	return &agrocostos.QueryResult{
		SeasonLabel: season.ArchiveDocName,
		Season:      season,
		Total:       len(rows),
		Filtered:    len(docs),
		Filters:     appliedFilters(q, crop, region),
		Documents:   docs,
		All:         rows,
	}, nil
}

// Report implements agrocostos.DocumentService. It parses the first
// document the query matches.
func (s *Service) Report(ctx context.Context, q *agrocostos.DocumentQuery) (*agrocostos.ReportResult, error) {
	ctx = WithRunID(ctx)

	res, err := s.QueryDocuments(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(res.Documents) == 0 {
		return nil, agrocostos.Errorf(agrocostos.ENOTFOUND, "no document in %q matches the filters", res.SeasonLabel)
	}
	doc := res.Documents[0]

	data, err := s.Downloader.Download(ctx, doc.URL)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", doc.URL, err)
	}

	text, err := s.Extractor.Extract(data)
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.Logger).Info("report",
		"document", doc.Title,
		"bytes", len(data),
		"pages", text.PageCount,
	)

	return &agrocostos.ReportResult{
		Document:    doc,
		Candidates:  len(res.Documents),
		ContentHash: fmt.Sprintf("%x", xxhash.Sum64(data)),
		Report:      agrocostos.ParseReport(text),
	}, nil
}

// resolveSeason looks the season up by name when the query names one, and
// otherwise builds it from the direct parameters. Looked-up seasons are
// copied so the caller's page cap never leaks into the catalog.
func (s *Service) resolveSeason(ctx context.Context, q *agrocostos.DocumentQuery) (*agrocostos.Season, error) {
	if q.Season == "" {
		return q.ToSeason(), nil
	}

	seasons, err := s.Seasons.FindSeasons(ctx)
	if err != nil {
		return nil, err
	}
	found, err := agrocostos.FindSeasonByName(seasons, q.Season)
	if err != nil {
		return nil, err
	}

	season := *found
	season.MaxPages = q.MaxPages
	if season.MaxPages == 0 {
		season.MaxPages = q.Tier.DefaultMaxPages()
	}
	if season.PageNumber == "" {
		season.PageNumber = agrocostos.DefaultPageNumber
	}
	return &season, nil
}

// withPageCap returns a copy of q carrying the configured cap for its tier
// when q sets none.
func (s *Service) withPageCap(q *agrocostos.DocumentQuery) *agrocostos.DocumentQuery {
	if q.MaxPages != 0 {
		return q
	}
	n := s.PublicMaxPages
	if q.Tier == agrocostos.TierInternal {
		n = s.InternalMaxPages
	}
	if n <= 0 {
		return q
	}
	c := *q
	c.MaxPages = n
	return &c
}

// compileFilter returns nil for an empty filter so it matches everything.
func compileFilter(field, s string) (*agrocostos.Pattern, error) {
	if s == "" {
		return nil, nil
	}
	return agrocostos.CompileFilter(field, s)
}

func appliedFilters(q *agrocostos.DocumentQuery, crop, region *agrocostos.Pattern) agrocostos.AppliedFilters {
	f := agrocostos.AppliedFilters{CropType: q.CropType, Region: q.Region}
	if crop != nil {
		f.CropPattern = crop.String()
	}
	if region != nil {
		f.RegionPattern = region.String()
	}
	return f
}
