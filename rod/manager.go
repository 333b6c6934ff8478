package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/agrocostos"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxContexts is the default number of browsing contexts served
// before the browser process is recycled.
const DefaultMaxContexts = 50

// BrowserManager owns one headless Chrome process and hands out isolated
// incognito contexts from it. Chrome's baseline memory grows with use, so
// the process is replaced once maxContexts contexts have been served and
// none is still in use.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	bin         string
	served      int
	active      int
	maxContexts int
	mu          sync.Mutex
	closed      atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxContexts sets the number of contexts served before recycling.
func WithMaxContexts(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxContexts = n
	}
}

// WithBin sets the Chrome executable. By default rod looks one up or
// downloads it.
func WithBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// NewBrowserManager launches a headless browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxContexts: DefaultMaxContexts,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}

	return bm, nil
}

// Context returns a fresh incognito browsing context. Cookies and storage
// are never shared between contexts. The returned release function disposes
// the context and must be called exactly once; extra calls are no-ops.
func (bm *BrowserManager) Context() (*rod.Browser, func(), error) {
	if bm.closed.Load() {
		return nil, nil, agrocostos.Errorf(agrocostos.EINTERNAL, "browser manager is closed")
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.served >= bm.maxContexts && bm.active == 0 {
		bm.recycleBrowser()
	}

	ctxBrowser, err := bm.browser.Incognito()
	if err != nil {
		return nil, nil, fmt.Errorf("creating browser context: %w", err)
	}
	bm.served++
	bm.active++

	var once sync.Once
	release := func() {
		once.Do(func() {
			_ = ctxBrowser.Close()
			bm.mu.Lock()
			bm.active--
			bm.mu.Unlock()
		})
	}
	return ctxBrowser, release, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.closeBrowser()
}

// launchBrowser starts a new browser instance. The sandbox is disabled so
// the process can run inside containers.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Leakless(true).
		Headless(true)
	if bm.bin != "" {
		lnchr = lnchr.Bin(bm.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held.
func (bm *BrowserManager) recycleBrowser() {
	oldBrowser := bm.browser
	oldLauncher := bm.launcher
	bm.browser = nil
	bm.launcher = nil

	if err := bm.launchBrowser(); err != nil {
		bm.browser = oldBrowser
		bm.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	bm.served = 0
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
