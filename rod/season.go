package rod

import (
	"context"
	"fmt"

	"github.com/fwojciec/agrocostos"
)

// Ensure SeasonFinder implements agrocostos.SeasonFinder at compile time.
var _ agrocostos.SeasonFinder = (*SeasonFinder)(nil)

// readySelectors are tried in order, most specific first.
var readySelectors = []string{
	`ul li a[onclick*="IDgetIdSeguimientoPadre"]`,
	`a[onclick*="IDgetIdSeguimientoPadre"]`,
	`a[onclick]`,
}

// SeasonFinder discovers seasons by rendering the catalog page and parsing
// a snapshot of its DOM.
type SeasonFinder struct {
	manager *BrowserManager
	parser  agrocostos.SeasonParser
	config  Config
}

// NewSeasonFinder creates a SeasonFinder.
func NewSeasonFinder(manager *BrowserManager, parser agrocostos.SeasonParser, config Config) *SeasonFinder {
	return &SeasonFinder{manager: manager, parser: parser, config: config}
}

// FindSeasons implements agrocostos.SeasonFinder. The snapshot is taken even
// when no readiness selector appeared, so a slow page can still yield seasons.
func (f *SeasonFinder) FindSeasons(ctx context.Context) ([]*agrocostos.Season, error) {
	page, release, err := openCatalog(ctx, f.manager, f.config)
	if err != nil {
		return nil, err
	}
	defer release()

	waitAny(page, readySelectors, f.config.ReadinessTimeout)

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("reading catalog DOM: %w", err)
	}
	return f.parser.ParseSeasons(html)
}
