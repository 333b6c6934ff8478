package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/agrocostos"
	achttp "github.com/fwojciec/agrocostos/http"
	"github.com/fwojciec/agrocostos/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFLinkService(t *testing.T) {
	t.Parallel()

	newServer := func() *httptest.Server {
		mux := http.NewServeMux()
		mux.HandleFunc("GET "+agrocostos.DefaultCatalogPath, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("catalog-html"))
		})
		mux.HandleFunc("POST "+agrocostos.DefaultListingPath, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("listing-html"))
		})
		return httptest.NewServer(mux)
	}

	t.Run("feeds catalog markup to the extractor", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		defer srv.Close()

		var gotHTML, gotSeason string
		extractor := &mock.PDFLinkExtractor{
			ExtractPDFLinksFn: func(html string, seasonName string) ([]*agrocostos.DocumentLink, error) {
				gotHTML, gotSeason = html, seasonName
				return []*agrocostos.DocumentLink{{URL: "https://example.com/a.pdf"}}, nil
			},
		}

		s := achttp.NewPDFLinkService(newClient(t, srv), extractor)
		links, err := s.FindDirectPDFs(context.Background())

		require.NoError(t, err)
		assert.Len(t, links, 1)
		assert.Equal(t, "catalog-html", gotHTML)
		assert.Empty(t, gotSeason)
	})

	t.Run("feeds listing markup with the season name", func(t *testing.T) {
		t.Parallel()

		srv := newServer()
		defer srv.Close()

		var gotHTML, gotSeason string
		extractor := &mock.PDFLinkExtractor{
			ExtractPDFLinksFn: func(html string, seasonName string) ([]*agrocostos.DocumentLink, error) {
				gotHTML, gotSeason = html, seasonName
				return []*agrocostos.DocumentLink{}, nil
			},
		}

		s := achttp.NewPDFLinkService(newClient(t, srv), extractor)
		_, err := s.FindSeasonPDFs(context.Background(), agrocostos.DefaultSeasons()[0])

		require.NoError(t, err)
		assert.Equal(t, "listing-html", gotHTML)
		assert.Equal(t, "Primavera - Verano 2025", gotSeason)
	})

	t.Run("rejects unusable seasons without a request", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("unexpected request")
		}))
		defer srv.Close()

		s := achttp.NewPDFLinkService(newClient(t, srv), &mock.PDFLinkExtractor{})
		_, err := s.FindSeasonPDFs(context.Background(), &agrocostos.Season{Name: "PV 2025"})

		assert.Equal(t, agrocostos.EINVALID, agrocostos.ErrorCode(err))
	})
}
