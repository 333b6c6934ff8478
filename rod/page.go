package rod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/agrocostos"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Config controls how rendered pages are driven.
type Config struct {
	Origin      string
	CatalogPath string
	ListingPath string
	UserAgent   string

	// NavigationTimeout bounds each navigation and the wait that follows it.
	NavigationTimeout time.Duration

	// ReadinessTimeout bounds each readiness selector in turn.
	ReadinessTimeout time.Duration

	// SettleDelay lets session cookies settle after the first navigation.
	SettleDelay time.Duration

	// RenderDelay lets a listing page finish rendering after submission.
	RenderDelay time.Duration
}

// DefaultConfig returns the settings used against the live site.
func DefaultConfig() Config {
	return Config{
		Origin:            agrocostos.DefaultOrigin,
		CatalogPath:       agrocostos.DefaultCatalogPath,
		ListingPath:       agrocostos.DefaultListingPath,
		UserAgent:         agrocostos.DefaultUserAgent,
		NavigationTimeout: 30 * time.Second,
		ReadinessTimeout:  5 * time.Second,
		SettleDelay:       time.Second,
		RenderDelay:       1500 * time.Millisecond,
	}
}

// CatalogURL returns the absolute catalog page URL.
func (c Config) CatalogURL() string {
	return strings.TrimRight(c.Origin, "/") + c.CatalogPath
}

// openCatalog creates a page in a fresh incognito context and loads the
// catalog. On success the caller owns release, which disposes the context
// and every page in it.
func openCatalog(ctx context.Context, m *BrowserManager, cfg Config) (*rod.Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	browser, release, err := m.Context()
	if err != nil {
		return nil, nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("creating page: %w", err)
	}
	page = page.Context(ctx)

	if cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}); err != nil {
			release()
			return nil, nil, fmt.Errorf("setting user agent: %w", err)
		}
	}

	nav := page.Timeout(cfg.NavigationTimeout)
	err = nav.Navigate(cfg.CatalogURL())
	if err == nil {
		err = nav.WaitLoad()
	}
	nav.CancelTimeout()
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	return page, release, nil
}

// waitAny waits for each selector in turn, up to timeout apiece, and
// returns the first one present. It returns "" when none appeared.
func waitAny(page *rod.Page, selectors []string, timeout time.Duration) string {
	for _, sel := range selectors {
		p := page.Timeout(timeout)
		_, err := p.Element(sel)
		p.CancelTimeout()
		if err == nil {
			return sel
		}
		if page.GetContext().Err() != nil {
			return ""
		}
	}
	return ""
}

// pause sleeps for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
