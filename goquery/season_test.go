package goquery_test

import (
	"testing"

	"github.com/fwojciec/agrocostos"
	"github.com/fwojciec/agrocostos/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogHTML = `<!DOCTYPE html>
<html>
<body>
<ul class="menu">
	<li><a href="#" onclick="document.getElementById('IDIdAplicacion').value='46';
		document.getElementById('IDNumPag').value='1';
		document.getElementById('IDgetIdSeguimientoPadre').value='124963';
		document.getElementById('IDgetNombre_Arc_Doc').value='PV 2025';
		document.getElementById('IDgetIdCarpDoc').value='124963';
		document.forms[0].submit();">Primavera - Verano 2025</a></li>
	<li><a href="#" onclick="document.getElementById(&quot;IDgetIdSeguimientoPadre&quot;).value=&quot;130001&quot;;
		document.getElementById(&quot;IDgetNombre_Arc_Doc&quot;).value=&quot;OI 2025-2026&quot;;
		document.getElementById(&quot;IDgetIdCarpDoc&quot;).value=&quot;130002&quot;;">O-I 2025/2026</a></li>
	<li><a href="#" onclick="document.getElementById('IDgetIdSeguimientoPadre').value='999';">Otoño 2019</a></li>
</ul>
<div>
	<a href="#" onclick="document.getElementById('IDgetNombre_Arc_Doc').value='Perennes';">Perennes 2025</a>
	<a href="/contacto">Contacto</a>
</div>
</body>
</html>`

func TestSeasonParser_ParseSeasons(t *testing.T) {
	t.Parallel()

	t.Run("extracts allow-listed seasons in document order", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSeasonParser(agrocostos.DefaultAllowList())
		seasons, err := p.ParseSeasons(catalogHTML)

		require.NoError(t, err)
		require.Len(t, seasons, 3)

		pv := seasons[0]
		assert.Equal(t, "Primavera - Verano 2025", pv.Name)
		assert.Equal(t, "46", pv.ApplicationID)
		assert.Equal(t, "1", pv.PageNumber)
		assert.Equal(t, "124963", pv.ParentTrackingID)
		assert.Equal(t, "PV 2025", pv.ArchiveDocName)
		assert.Equal(t, "124963", pv.FolderDocID)
		assert.True(t, pv.Usable())

		assert.Equal(t, "O-I 2025/2026", seasons[1].Name)
		assert.Equal(t, "Perennes 2025", seasons[2].Name)
	})

	t.Run("accepts double-quoted values and applies defaults", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSeasonParser(agrocostos.DefaultAllowList())
		seasons, err := p.ParseSeasons(catalogHTML)

		require.NoError(t, err)
		oi := seasons[1]
		assert.Equal(t, "130001", oi.ParentTrackingID)
		assert.Equal(t, "OI 2025-2026", oi.ArchiveDocName)
		assert.Equal(t, "130002", oi.FolderDocID)
		assert.Equal(t, agrocostos.DefaultApplicationID, oi.ApplicationID)
		assert.Equal(t, agrocostos.DefaultPageNumber, oi.PageNumber)
	})

	t.Run("keeps seasons missing parameters but marks them unusable", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSeasonParser(agrocostos.DefaultAllowList())
		seasons, err := p.ParseSeasons(catalogHTML)

		require.NoError(t, err)
		perennes := seasons[2]
		assert.Equal(t, "Perennes", perennes.ArchiveDocName)
		assert.Empty(t, perennes.FolderDocID)
		assert.False(t, perennes.Usable())
	})

	t.Run("does not duplicate controls matched by several selectors", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSeasonParser([]string{"Primavera - Verano 2025"})
		seasons, err := p.ParseSeasons(catalogHTML)

		require.NoError(t, err)
		assert.Len(t, seasons, 1)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewSeasonParser(agrocostos.DefaultAllowList())
		seasons, err := p.ParseSeasons(`<html><body><p>Mantenimiento</p></body></html>`)

		require.NoError(t, err)
		assert.NotNil(t, seasons)
		assert.Empty(t, seasons)
	})
}
