package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/agrocostos"
	main "github.com/fwojciec/agrocostos/cmd/agrocostos"
	"github.com/fwojciec/agrocostos/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeasons() []*agrocostos.Season {
	return []*agrocostos.Season{
		{
			Name:             "Primavera - Verano 2025",
			ApplicationID:    "46",
			PageNumber:       "1",
			ParentTrackingID: "124963",
			ArchiveDocName:   "PV 2025",
			FolderDocID:      "124963",
		},
		{
			Name:             "O-I 2025/2026",
			ApplicationID:    "46",
			PageNumber:       "1",
			ParentTrackingID: "130001",
			ArchiveDocName:   "OI 2025-2026",
			FolderDocID:      "130001",
		},
	}
}

func seasonService(seasons []*agrocostos.Season, err error) *mock.SeasonFinder {
	return &mock.SeasonFinder{
		FindSeasonsFn: func(_ context.Context) ([]*agrocostos.Season, error) {
			return seasons, err
		},
	}
}

func TestSeasonsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists folder id, name, and archive name", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Seasons: seasonService(testSeasons(), nil),
		}

		err := (&main.SeasonsCmd{}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "124963  Primavera - Verano 2025  PV 2025")
		assert.Contains(t, output, "130001  O-I 2025/2026")
	})

	t.Run("prints JSON with the original field names", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			JSON:    true,
			Seasons: seasonService(testSeasons(), nil),
		}

		err := (&main.SeasonsCmd{}).Run(deps)

		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "124963", got[0]["folderDocId"])
		assert.Equal(t, "PV 2025", got[0]["archiveDocName"])
	})

	t.Run("reports errors on stderr", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Seasons: seasonService(nil, agrocostos.Errorf(agrocostos.EINTERNAL, "browser crashed")),
		}

		err := (&main.SeasonsCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: browser crashed\n", stderr.String())
	})

	t.Run("hides internal error details", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Seasons: seasonService(nil, errors.New("dial tcp: refused")),
		}

		err := (&main.SeasonsCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: Internal error\n", stderr.String())
	})
}
