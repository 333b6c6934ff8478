package rod

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/agrocostos"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure ListingBrowser implements agrocostos.ListingBrowser at compile time.
var _ agrocostos.ListingBrowser = (*ListingBrowser)(nil)

// submitFormJS builds a hidden POST form inside the page and submits it, so
// the request carries the session cookies and headers of a real navigation.
const submitFormJS = `(action, fields) => {
	const form = document.createElement('form');
	form.method = 'POST';
	form.action = action;
	form.style.display = 'none';
	for (const [name, value] of Object.entries(fields)) {
		const input = document.createElement('input');
		input.type = 'hidden';
		input.name = name;
		input.value = value;
		form.appendChild(input);
	}
	document.body.appendChild(form);
	form.submit();
}`

// ListingBrowser opens rendered listing sessions, one incognito context each.
type ListingBrowser struct {
	manager *BrowserManager
	parser  agrocostos.RowParser
	config  Config
}

// NewListingBrowser creates a ListingBrowser.
func NewListingBrowser(manager *BrowserManager, parser agrocostos.RowParser, config Config) *ListingBrowser {
	return &ListingBrowser{manager: manager, parser: parser, config: config}
}

// OpenSession implements agrocostos.ListingBrowser.
func (b *ListingBrowser) OpenSession(ctx context.Context) (agrocostos.ListingSession, error) {
	page, release, err := openCatalog(ctx, b.manager, b.config)
	if err != nil {
		return nil, err
	}
	if err := pause(ctx, b.config.SettleDelay); err != nil {
		release()
		return nil, err
	}
	return &listingSession{
		page:    page,
		release: release,
		parser:  b.parser,
		config:  b.config,
	}, nil
}

type listingSession struct {
	page    *rod.Page
	release func()
	parser  agrocostos.RowParser
	config  Config
	once    sync.Once
}

func (s *listingSession) SubmitPage(ctx context.Context, season *agrocostos.Season, n int) error {
	fields := make(map[string]string)
	for k, v := range season.ListingForm(n) {
		fields[k] = v[0]
	}

	p := s.page.Context(ctx).Timeout(s.config.NavigationTimeout)
	defer p.CancelTimeout()

	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if _, err := p.Eval(submitFormJS, s.config.ListingPath, fields); err != nil {
		return fmt.Errorf("submitting listing page %d: %w", n, err)
	}
	wait()
	if err := p.GetContext().Err(); err != nil {
		return fmt.Errorf("waiting for listing page %d: %w", n, err)
	}

	return pause(ctx, s.config.RenderDelay)
}

func (s *listingSession) Rows(ctx context.Context, season *agrocostos.Season) ([]*agrocostos.DocumentLink, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return nil, fmt.Errorf("reading listing DOM: %w", err)
	}
	return s.parser.ParseRows(html, season.Name)
}

func (s *listingSession) Close() error {
	s.once.Do(s.release)
	return nil
}
