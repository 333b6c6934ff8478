package harvest_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/agrocostos"
	"github.com/fwojciec/agrocostos/harvest"
	"github.com/fwojciec/agrocostos/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listingRows = []*agrocostos.DocumentLink{
	{Title: "Maíz grano riego Sinaloa", URL: "https://www.fira.gob.mx/abrirArchivo.jsp?abreArc=1"},
	{Title: "Frijol temporal Zacatecas", URL: "https://www.fira.gob.mx/abrirArchivo.jsp?abreArc=2"},
	{Title: "MAIZ blanco temporal Jalisco", URL: "https://www.fira.gob.mx/abrirArchivo.jsp?abreArc=3"},
}

func pvQuery() *agrocostos.DocumentQuery {
	return &agrocostos.DocumentQuery{
		ApplicationID:    "46",
		ParentTrackingID: "124963",
		ArchiveDocName:   "PV 2025",
		FolderDocID:      "124963",
	}
}

// rowsHarvester serves rows and records the seasons it was asked for.
func rowsHarvester(rows []*agrocostos.DocumentLink, err error, seen *[]*agrocostos.Season) *mock.Harvester {
	return &mock.Harvester{
		HarvestFn: func(_ context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error) {
			if seen != nil {
				*seen = append(*seen, season)
			}
			return rows, err
		},
	}
}

func TestService_QueryDocuments(t *testing.T) {
	t.Parallel()

	t.Run("filters rows by crop type ignoring case and accents", func(t *testing.T) {
		t.Parallel()

		var seen []*agrocostos.Season
		s := &harvest.Service{Harvester: rowsHarvester(listingRows, nil, &seen)}

		q := pvQuery()
		q.CropType = "maiz"
		res, err := s.QueryDocuments(context.Background(), q)

		require.NoError(t, err)
		assert.Equal(t, "PV 2025", res.SeasonLabel)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 2, res.Filtered)
		require.Len(t, res.Documents, 2)
		assert.Same(t, listingRows[0], res.Documents[0])
		assert.Same(t, listingRows[2], res.Documents[1])
		assert.Equal(t, "maiz", res.Filters.CropType)
		assert.NotEmpty(t, res.Filters.CropPattern)
		assert.Empty(t, res.Filters.RegionPattern)
		assert.Len(t, res.All, 3)

		require.Len(t, seen, 1)
		assert.Equal(t, agrocostos.PublicMaxPages, seen[0].MaxPages)
		assert.Equal(t, agrocostos.DefaultPageNumber, seen[0].PageNumber)
	})

	t.Run("combines crop type and region filters", func(t *testing.T) {
		t.Parallel()

		s := &harvest.Service{Harvester: rowsHarvester(listingRows, nil, nil)}

		q := pvQuery()
		q.CropType = "maíz"
		q.Region = "jalisco"
		res, err := s.QueryDocuments(context.Background(), q)

		require.NoError(t, err)
		require.Len(t, res.Documents, 1)
		assert.Same(t, listingRows[2], res.Documents[0])
	})

	t.Run("returns every row without filters", func(t *testing.T) {
		t.Parallel()

		s := &harvest.Service{Harvester: rowsHarvester(listingRows, nil, nil)}

		res, err := s.QueryDocuments(context.Background(), pvQuery())

		require.NoError(t, err)
		assert.Equal(t, listingRows, res.Documents)
		assert.Equal(t, agrocostos.AppliedFilters{}, res.Filters)
	})

	t.Run("rejects a query missing folderDocId without harvesting", func(t *testing.T) {
		t.Parallel()

		var seen []*agrocostos.Season
		s := &harvest.Service{Harvester: rowsHarvester(listingRows, nil, &seen)}

		q := pvQuery()
		q.FolderDocID = ""
		_, err := s.QueryDocuments(context.Background(), q)

		var ve *agrocostos.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, []string{"folderDocId"}, ve.Fields)
		assert.Empty(t, seen)
	})

	t.Run("rejects a malformed region pattern without harvesting", func(t *testing.T) {
		t.Parallel()

		var seen []*agrocostos.Season
		s := &harvest.Service{Harvester: rowsHarvester(listingRows, nil, &seen)}

		q := pvQuery()
		q.Region = "(sin"
		_, err := s.QueryDocuments(context.Background(), q)

		assert.Equal(t, agrocostos.EPATTERN, agrocostos.ErrorCode(err))
		assert.Equal(t, "region", agrocostos.ErrorField(err))
		assert.Contains(t, agrocostos.ErrorMessage(err), "(sin")
		assert.Empty(t, seen)
	})

	t.Run("applies the internal page cap", func(t *testing.T) {
		t.Parallel()

		var seen []*agrocostos.Season
		s := &harvest.Service{Harvester: rowsHarvester(listingRows, nil, &seen)}

		q := pvQuery()
		q.Tier = agrocostos.TierInternal
		_, err := s.QueryDocuments(context.Background(), q)

		require.NoError(t, err)
		require.Len(t, seen, 1)
		assert.Equal(t, agrocostos.DefaultMaxPages, seen[0].MaxPages)
	})

	t.Run("respects an explicit page cap", func(t *testing.T) {
		t.Parallel()

		var seen []*agrocostos.Season
		s := &harvest.Service{Harvester: rowsHarvester(listingRows, nil, &seen)}

		q := pvQuery()
		q.MaxPages = 2
		_, err := s.QueryDocuments(context.Background(), q)

		require.NoError(t, err)
		assert.Equal(t, 2, seen[0].MaxPages)
	})

	t.Run("applies configured tier caps", func(t *testing.T) {
		t.Parallel()

		var seen []*agrocostos.Season
		s := &harvest.Service{
			Harvester:        rowsHarvester(listingRows, nil, &seen),
			PublicMaxPages:   3,
			InternalMaxPages: 30,
		}

		_, err := s.QueryDocuments(context.Background(), pvQuery())
		require.NoError(t, err)

		q := pvQuery()
		q.Tier = agrocostos.TierInternal
		_, err = s.QueryDocuments(context.Background(), q)
		require.NoError(t, err)

		require.Len(t, seen, 2)
		assert.Equal(t, 3, seen[0].MaxPages)
		assert.Equal(t, 30, seen[1].MaxPages)
	})

	t.Run("looks up a season by name without mutating the catalog", func(t *testing.T) {
		t.Parallel()

		catalog := []*agrocostos.Season{
			{Name: "Perennes 2025"},
			{
				Name:             "Primavera - Verano 2025",
				ApplicationID:    "46",
				ParentTrackingID: "124963",
				ArchiveDocName:   "PV 2025",
				FolderDocID:      "124963",
			},
		}
		var seen []*agrocostos.Season
		s := &harvest.Service{
			Seasons: &mock.SeasonFinder{
				FindSeasonsFn: func(_ context.Context) ([]*agrocostos.Season, error) {
					return catalog, nil
				},
			},
			Harvester: rowsHarvester(listingRows, nil, &seen),
		}

		res, err := s.QueryDocuments(context.Background(), &agrocostos.DocumentQuery{Season: "Primavera - Verano 2025"})

		require.NoError(t, err)
		assert.Equal(t, "PV 2025", res.SeasonLabel)
		require.Len(t, seen, 1)
		assert.NotSame(t, catalog[1], seen[0])
		assert.Equal(t, "124963", seen[0].FolderDocID)
		assert.Equal(t, agrocostos.PublicMaxPages, seen[0].MaxPages)
		assert.Equal(t, agrocostos.DefaultPageNumber, seen[0].PageNumber)
		assert.Zero(t, catalog[1].MaxPages)
	})

	t.Run("returns not found for an unknown season name", func(t *testing.T) {
		t.Parallel()

		var seen []*agrocostos.Season
		s := &harvest.Service{
			Seasons: &mock.SeasonFinder{
				FindSeasonsFn: func(_ context.Context) ([]*agrocostos.Season, error) {
					return agrocostos.DefaultSeasons(), nil
				},
			},
			Harvester: rowsHarvester(listingRows, nil, &seen),
		}

		_, err := s.QueryDocuments(context.Background(), &agrocostos.DocumentQuery{Season: "OI 2030"})

		assert.Equal(t, agrocostos.ENOTFOUND, agrocostos.ErrorCode(err))
		assert.Empty(t, seen)
	})

	t.Run("keeps partial rows from an interrupted harvest", func(t *testing.T) {
		t.Parallel()

		partial := listingRows[:2]
		herr := &agrocostos.HarvestError{Season: "PV 2025", Page: 2, Err: errors.New("navigation timeout")}
		s := &harvest.Service{Harvester: rowsHarvester(partial, herr, nil)}

		res, err := s.QueryDocuments(context.Background(), pvQuery())

		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("propagates harvest errors that are not partial", func(t *testing.T) {
		t.Parallel()

		s := &harvest.Service{Harvester: rowsHarvester(nil, context.Canceled, nil)}

		_, err := s.QueryDocuments(context.Background(), pvQuery())

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("fails when the deadline expires mid-harvest", func(t *testing.T) {
		t.Parallel()

		browser := &mock.ListingBrowser{
			OpenSessionFn: func(_ context.Context) (agrocostos.ListingSession, error) {
				return &mock.ListingSession{
					SubmitPageFn: func(ctx context.Context, _ *agrocostos.Season, _ int) error {
						<-ctx.Done()
						return ctx.Err()
					},
					CloseFn: func() error { return nil },
				}, nil
			},
		}
		s := &harvest.Service{Harvester: &harvest.Harvester{Browser: browser}}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		res, err := s.QueryDocuments(ctx, pvQuery())

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Nil(t, res)
	})

	t.Run("returns empty documents when nothing matches", func(t *testing.T) {
		t.Parallel()

		s := &harvest.Service{Harvester: rowsHarvester(nil, nil, nil)}

		q := pvQuery()
		q.CropType = "sorgo"
		res, err := s.QueryDocuments(context.Background(), q)

		require.NoError(t, err)
		assert.NotNil(t, res.Documents)
		assert.Empty(t, res.Documents)
		assert.Zero(t, res.Total)
	})
}

func TestService_Report(t *testing.T) {
	t.Parallel()

	pdfBytes := []byte("%PDF-1.4 stub")
	reportText := &agrocostos.PDFText{
		PageCount: 2,
		Text:      "Cultivo: Maíz\nCOSTOS\nSemilla $ 4,500\n",
	}

	t.Run("downloads and parses the first matching document", func(t *testing.T) {
		t.Parallel()

		var downloaded string
		s := &harvest.Service{
			Harvester: rowsHarvester(listingRows, nil, nil),
			Downloader: &mock.Downloader{
				DownloadFn: func(_ context.Context, url string) ([]byte, error) {
					downloaded = url
					return pdfBytes, nil
				},
			},
			Extractor: &mock.PDFExtractor{
				ExtractFn: func(data []byte) (*agrocostos.PDFText, error) {
					assert.Equal(t, pdfBytes, data)
					return reportText, nil
				},
			},
		}

		q := pvQuery()
		q.CropType = "maiz"
		res, err := s.Report(context.Background(), q)

		require.NoError(t, err)
		assert.Equal(t, listingRows[0].URL, downloaded)
		assert.Same(t, listingRows[0], res.Document)
		assert.Equal(t, 2, res.Candidates)
		assert.Equal(t, fmt.Sprintf("%x", xxhash.Sum64(pdfBytes)), res.ContentHash)
		assert.Equal(t, "Maíz", res.Report.Metadata.Crop)
		assert.Equal(t, []string{"Semilla $ 4,500"}, res.Report.Costs)
	})

	t.Run("returns not found when no document matches", func(t *testing.T) {
		t.Parallel()

		s := &harvest.Service{
			Harvester: rowsHarvester(listingRows, nil, nil),
			Downloader: &mock.Downloader{
				DownloadFn: func(_ context.Context, _ string) ([]byte, error) {
					t.Fatal("download must not be attempted")
					return nil, nil
				},
			},
		}

		q := pvQuery()
		q.CropType = "sorgo"
		_, err := s.Report(context.Background(), q)

		assert.Equal(t, agrocostos.ENOTFOUND, agrocostos.ErrorCode(err))
	})

	t.Run("passes extraction failures through", func(t *testing.T) {
		t.Parallel()

		s := &harvest.Service{
			Harvester: rowsHarvester(listingRows, nil, nil),
			Downloader: &mock.Downloader{
				DownloadFn: func(_ context.Context, _ string) ([]byte, error) {
					return []byte("not a pdf"), nil
				},
			},
			Extractor: &mock.PDFExtractor{
				ExtractFn: func(_ []byte) (*agrocostos.PDFText, error) {
					return nil, agrocostos.Errorf(agrocostos.EEXTRACT, "not a PDF")
				},
			},
		}

		_, err := s.Report(context.Background(), pvQuery())

		assert.Equal(t, agrocostos.EEXTRACT, agrocostos.ErrorCode(err))
	})

	t.Run("wraps download failures", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("HTTP 503")
		s := &harvest.Service{
			Harvester: rowsHarvester(listingRows, nil, nil),
			Downloader: &mock.Downloader{
				DownloadFn: func(_ context.Context, _ string) ([]byte, error) {
					return nil, cause
				},
			},
		}

		_, err := s.Report(context.Background(), pvQuery())

		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), listingRows[0].URL)
	})
}

func TestWithRunID(t *testing.T) {
	t.Parallel()

	t.Run("assigns a run id", func(t *testing.T) {
		t.Parallel()

		ctx := harvest.WithRunID(context.Background())

		assert.NotEmpty(t, harvest.RunID(ctx))
	})

	t.Run("keeps an existing run id", func(t *testing.T) {
		t.Parallel()

		ctx := harvest.WithRunID(context.Background())
		again := harvest.WithRunID(ctx)

		assert.Equal(t, harvest.RunID(ctx), harvest.RunID(again))
	})

	t.Run("returns empty without a run id", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, harvest.RunID(context.Background()))
	})
}
