package agrocostos_test

import (
	"testing"

	"github.com/fwojciec/agrocostos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentQuery_Validate(t *testing.T) {
	t.Parallel()

	t.Run("missing folderDocId is named", func(t *testing.T) {
		t.Parallel()

		q := &agrocostos.DocumentQuery{
			ApplicationID:    "46",
			ParentTrackingID: "124963",
			ArchiveDocName:   "PV 2025",
		}

		err := q.Validate()

		require.Error(t, err)
		assert.Equal(t, agrocostos.EINVALID, agrocostos.ErrorCode(err))
		assert.Equal(t, "folderDocId", agrocostos.ErrorField(err))
	})

	t.Run("season name alone is enough", func(t *testing.T) {
		t.Parallel()

		q := &agrocostos.DocumentQuery{Season: "O-I 2025/2026"}

		assert.NoError(t, q.Validate())
	})

	t.Run("negative max pages is rejected", func(t *testing.T) {
		t.Parallel()

		q := &agrocostos.DocumentQuery{Season: "PV 2025", MaxPages: -1}

		assert.Equal(t, "maxPages", agrocostos.ErrorField(q.Validate()))
	})
}

func TestDocumentQuery_ToSeason(t *testing.T) {
	t.Parallel()

	base := agrocostos.DocumentQuery{
		ApplicationID:    "46",
		ParentTrackingID: "124963",
		ArchiveDocName:   "PV 2025",
		FolderDocID:      "124963",
	}

	t.Run("public tier defaults to five pages", func(t *testing.T) {
		t.Parallel()

		q := base
		s := q.ToSeason()

		assert.Equal(t, "1", s.PageNumber)
		assert.Equal(t, agrocostos.PublicMaxPages, s.MaxPages)
		assert.Equal(t, "PV 2025", s.Name)
	})

	t.Run("internal tier defaults to fifteen pages", func(t *testing.T) {
		t.Parallel()

		q := base
		q.Tier = agrocostos.TierInternal

		assert.Equal(t, agrocostos.DefaultMaxPages, q.ToSeason().MaxPages)
	})

	t.Run("explicit values are kept", func(t *testing.T) {
		t.Parallel()

		q := base
		q.PageNumber = "3"
		q.MaxPages = 2

		s := q.ToSeason()
		assert.Equal(t, "3", s.PageNumber)
		assert.Equal(t, 2, s.MaxPages)
	})
}
