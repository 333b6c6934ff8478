package rod_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/agrocostos"
	"github.com/fwojciec/agrocostos/mock"
	"github.com/fwojciec/agrocostos/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingListingBrowser(t *testing.T) {
	t.Parallel()

	t.Run("logs each session step with season and page", func(t *testing.T) {
		t.Parallel()

		session := &mock.ListingSession{
			SubmitPageFn: func(_ context.Context, _ *agrocostos.Season, _ int) error { return nil },
			RowsFn: func(_ context.Context, _ *agrocostos.Season) ([]*agrocostos.DocumentLink, error) {
				return []*agrocostos.DocumentLink{{URL: "https://example.com/a"}}, nil
			},
			CloseFn: func() error { return nil },
		}
		next := &mock.ListingBrowser{
			OpenSessionFn: func(_ context.Context) (agrocostos.ListingSession, error) { return session, nil },
		}

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		b := rod.NewLoggingListingBrowser(next, logger)

		s, err := b.OpenSession(context.Background())
		require.NoError(t, err)
		require.NoError(t, s.SubmitPage(context.Background(), &agrocostos.Season{Name: "PV 2025"}, 2))
		rows, err := s.Rows(context.Background(), &agrocostos.Season{Name: "PV 2025"})
		require.NoError(t, err)
		require.NoError(t, s.Close())

		assert.Len(t, rows, 1)
		out := buf.String()
		assert.Contains(t, out, "open session")
		assert.Contains(t, out, "submit page")
		assert.Contains(t, out, "page=2")
		assert.Contains(t, out, "season=\"PV 2025\"")
		assert.Contains(t, out, "rows=1")
	})

	t.Run("returns nil session and logs error when opening fails", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("launch failed")
		next := &mock.ListingBrowser{
			OpenSessionFn: func(_ context.Context) (agrocostos.ListingSession, error) { return nil, wantErr },
		}

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		b := rod.NewLoggingListingBrowser(next, logger)

		s, err := b.OpenSession(context.Background())

		assert.Nil(t, s)
		assert.ErrorIs(t, err, wantErr)
		assert.Contains(t, buf.String(), "launch failed")
	})
}
