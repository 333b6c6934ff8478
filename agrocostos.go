// Package agrocostos retrieves published agricultural cost documents from the
// FIRA Agrocostos catalog. The catalog exposes its seasons only through
// server-rendered HTML and inline onclick handlers, so discovery, pagination,
// and link extraction are all scraping problems.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, http/, pdf/).
package agrocostos

// Origin and paths of the source site.
const (
	DefaultOrigin      = "https://www.fira.gob.mx"
	DefaultCatalogPath = "/Nd/Agrocostos.jsp"
	DefaultListingPath = "/InfEspDtoXML/TemasUsuario.jsp"
)

// DefaultUserAgent is sent by both the browser and the static client.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
