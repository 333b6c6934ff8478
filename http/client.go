// Package http provides the plain-HTTP side of the catalog: static page
// fetches, direct listing posts, and document downloads. Nothing here
// executes JavaScript.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/fwojciec/agrocostos"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 30 * time.Second

// MaxDownloadSize bounds the bytes read from a single document.
const MaxDownloadSize = 64 << 20

// Ensure Client implements agrocostos.Downloader at compile time.
var _ agrocostos.Downloader = (*Client)(nil)

// Client talks to the catalog origin. It keeps a cookie jar so the listing
// endpoint sees the session the catalog page issued, and throttles every
// request through one shared limiter.
//
// Client is safe for concurrent use.
type Client struct {
	client      *http.Client
	limiter     *rate.Limiter
	origin      string
	catalogPath string
	listingPath string
	userAgent   string
	timeout     time.Duration
	rps         float64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRate limits requests to rps per second. Zero or less disables limiting.
func WithRate(rps float64) Option {
	return func(c *Client) {
		c.rps = rps
	}
}

// WithOrigin sets the scheme and host requests go to.
func WithOrigin(origin string) Option {
	return func(c *Client) {
		c.origin = strings.TrimRight(origin, "/")
	}
}

// WithPaths sets the catalog and listing paths on the origin.
func WithPaths(catalog, listing string) Option {
	return func(c *Client) {
		c.catalogPath = catalog
		c.listingPath = listing
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		origin:      agrocostos.DefaultOrigin,
		catalogPath: agrocostos.DefaultCatalogPath,
		listingPath: agrocostos.DefaultListingPath,
		userAgent:   agrocostos.DefaultUserAgent,
		timeout:     DefaultTimeout,
		rps:         1,
	}
	for _, opt := range opts {
		opt(c)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	c.client = &http.Client{
		Timeout: c.timeout,
		Jar:     jar,
	}

	limit := rate.Inf
	if c.rps > 0 {
		limit = rate.Limit(c.rps)
	}
	c.limiter = rate.NewLimiter(limit, 1)

	return c, nil
}

// CatalogURL returns the absolute catalog page URL.
func (c *Client) CatalogURL() string {
	return c.origin + c.catalogPath
}

// Catalog returns the markup of the catalog landing page.
func (c *Client) Catalog(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CatalogURL(), nil)
	if err != nil {
		return "", err
	}
	c.setBrowserHeaders(req)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Listing posts the season's form directly to the listing endpoint and
// returns the first page of results.
func (c *Client) Listing(ctx context.Context, season *agrocostos.Season) (string, error) {
	form := season.DirectListingForm()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.origin+c.listingPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	c.setBrowserHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", c.CatalogURL())
	req.Header.Set("Origin", c.origin)

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Download implements agrocostos.Downloader.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, agrocostos.Errorf(agrocostos.EINVALID, "invalid document URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/pdf,*/*;q=0.8")
	req.Header.Set("Referer", c.CatalogURL())
	return c.do(req)
}

func (c *Client) setBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-MX,es;q=0.9,en;q=0.8")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, req.URL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxDownloadSize {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", req.URL, MaxDownloadSize)
	}
	return body, nil
}
