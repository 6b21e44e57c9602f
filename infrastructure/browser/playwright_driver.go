package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"reqbridge/domain/cookie"
)

// clickablePollInterval is how often the clickable wait re-checks the
// enabled heuristic after the element became visible.
const clickablePollInterval = 100 * time.Millisecond

// PlaywrightDriver implements Driver on top of playwright-go. One driver
// owns one browser process, one context and one page; the engine (chrome or
// firefox) is chosen at Start from the configuration.
type PlaywrightDriver struct {
	cfg    *Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool

	pw        *playwright.Playwright
	browser   playwright.Browser
	browserCx playwright.BrowserContext
	page      playwright.Page
}

// NewPlaywrightDriver creates a driver for the configured engine. The
// browser name is validated here, before any process is started.
func NewPlaywrightDriver(cfg *Config) (*PlaywrightDriver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 30 * time.Second
	}

	if _, err := ParseEngine(string(cfg.Engine)); err != nil {
		return nil, err
	}

	return &PlaywrightDriver{
		cfg:    cfg,
		logger: cfg.Logger,
	}, nil
}

// Start launches the browser process and opens the initial page.
func (d *PlaywrightDriver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("browser already running")
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	var engine playwright.BrowserType
	switch d.cfg.Engine {
	case EngineChrome:
		engine = pw.Chromium
	case EngineFirefox:
		engine = pw.Firefox
	default:
		_ = pw.Stop()
		return fmt.Errorf("%w, not: %q", ErrInvalidEngine, string(d.cfg.Engine))
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.cfg.Headless),
	}
	// Proxy applies only when both endpoints are configured; a partial
	// configuration means no proxy.
	if d.cfg.HTTPProxy != "" && d.cfg.SSLProxy != "" {
		launchOpts.Proxy = &playwright.Proxy{
			Server: "http://" + d.cfg.HTTPProxy,
		}
	}

	browser, err := engine.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch %s: %w", d.cfg.Engine, err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{}
	if d.cfg.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(d.cfg.UserAgent)
	}

	browserCx, err := browser.NewContext(ctxOpts)
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := browserCx.NewPage()
	if err != nil {
		_ = browserCx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(d.cfg.DefaultTimeout.Milliseconds()))

	d.pw = pw
	d.browser = browser
	d.browserCx = browserCx
	d.page = page
	d.running = true

	d.logger.Info("browser started",
		"engine", string(d.cfg.Engine), "headless", d.cfg.Headless)

	return nil
}

// Stop closes the browser and releases resources.
func (d *PlaywrightDriver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}
	d.running = false

	if d.browserCx != nil {
		if err := d.browserCx.Close(); err != nil {
			return err
		}
		d.browserCx = nil
	}
	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			return err
		}
		d.browser = nil
	}
	if d.pw != nil {
		err := d.pw.Stop()
		d.pw = nil
		return err
	}
	return nil
}

// IsRunning returns true if the browser is active.
func (d *PlaywrightDriver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// currentPage returns the active page or ErrNotRunning.
func (d *PlaywrightDriver) currentPage() (playwright.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running || d.page == nil {
		return nil, ErrNotRunning
	}
	return d.page, nil
}

// Navigate loads the given URL in the current page.
func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	page, err := d.currentPage()
	if err != nil {
		return err
	}

	if _, err := page.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// CurrentURL returns the URL of the current page.
func (d *PlaywrightDriver) CurrentURL(ctx context.Context) (string, error) {
	page, err := d.currentPage()
	if err != nil {
		return "", err
	}
	return page.URL(), nil
}

// PageSource returns the rendered HTML of the current page.
func (d *PlaywrightDriver) PageSource(ctx context.Context) (string, error) {
	page, err := d.currentPage()
	if err != nil {
		return "", err
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page source: %w", err)
	}
	return content, nil
}

// ExecuteScript evaluates JavaScript in the page. At most one argument is
// forwarded.
func (d *PlaywrightDriver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	page, err := d.currentPage()
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		return page.Evaluate(script, args[0])
	}
	return page.Evaluate(script)
}

// Cookies returns the cookies currently held by the browser context.
func (d *PlaywrightDriver) Cookies(ctx context.Context) ([]cookie.Cookie, error) {
	d.mu.Lock()
	browserCx := d.browserCx
	running := d.running
	d.mu.Unlock()

	if !running || browserCx == nil {
		return nil, ErrNotRunning
	}

	pwCookies, err := browserCx.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to get cookies: %w", err)
	}

	cookies := make([]cookie.Cookie, len(pwCookies))
	for i, pc := range pwCookies {
		c := cookie.Cookie{
			Name:   pc.Name,
			Value:  pc.Value,
			Domain: pc.Domain,
			Path:   pc.Path,
		}
		// Expires <= 0 marks a session cookie.
		if pc.Expires > 0 {
			c.Expires = time.Unix(int64(pc.Expires), 0)
		}
		cookies[i] = c
	}
	return cookies, nil
}

// AddCookie submits one cookie to the browser's cookie store. A cookie with
// an empty domain is attached to whatever page is currently loaded.
func (d *PlaywrightDriver) AddCookie(ctx context.Context, c cookie.Cookie) error {
	d.mu.Lock()
	browserCx := d.browserCx
	page := d.page
	running := d.running
	d.mu.Unlock()

	if !running || browserCx == nil {
		return ErrNotRunning
	}

	pageURL := ""
	if page != nil {
		pageURL = page.URL()
	}

	if err := browserCx.AddCookies([]playwright.OptionalCookie{toOptionalCookie(c, pageURL)}); err != nil {
		return fmt.Errorf("failed to add cookie %q: %w", c.Name, err)
	}
	return nil
}

// toOptionalCookie maps a cookie to the engine's add-cookie form. Name and
// value are required plain fields; domain and path are optional and a cookie
// without a domain is attached to the given page URL instead.
func toOptionalCookie(c cookie.Cookie, pageURL string) playwright.OptionalCookie {
	oc := playwright.OptionalCookie{
		Name:  c.Name,
		Value: c.Value,
	}
	if c.Domain != "" {
		oc.Domain = playwright.String(c.Domain)
		path := c.Path
		if path == "" {
			path = "/"
		}
		oc.Path = playwright.String(path)
	} else if pageURL != "" {
		oc.URL = playwright.String(pageURL)
	}
	if !c.Expires.IsZero() {
		oc.Expires = playwright.Float(float64(c.Expires.Unix()))
	}
	return oc
}

// WaitFor blocks until the element reaches the requested state or the
// timeout elapses.
func (d *PlaywrightDriver) WaitFor(ctx context.Context, by By, selector string, state State, timeout time.Duration) (Element, error) {
	// Arguments are validated before touching the engine so bad input
	// fails fast instead of burning the timeout.
	if _, err := ParseState(string(state)); err != nil {
		return nil, err
	}
	engineSel, err := engineSelector(by, selector)
	if err != nil {
		return nil, err
	}

	page, err := d.currentPage()
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = d.cfg.DefaultTimeout
	}

	desc := WaitDescriptor{By: by, Selector: selector, State: state, Timeout: timeout}
	deadline := time.Now().Add(timeout)

	var pwState *playwright.WaitForSelectorState
	switch state {
	case StatePresent:
		pwState = playwright.WaitForSelectorStateAttached
	case StateVisible, StateClickable:
		pwState = playwright.WaitForSelectorStateVisible
	case StateInvisible:
		pwState = playwright.WaitForSelectorStateHidden
	}

	handle, err := page.WaitForSelector(engineSel, playwright.PageWaitForSelectorOptions{
		State:   pwState,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		d.logger.Debug("wait failed", "locator", desc.String(), "error", err)
		return nil, &ElementNotFoundError{
			By: by, Selector: selector, State: state, Timeout: timeout, Cause: err,
		}
	}

	// The invisible state yields no element by contract: there is nothing
	// meaningful to interact with.
	if state == StateInvisible {
		return nil, nil
	}

	el := &pwElement{handle: handle, logger: d.logger}

	if state == StateClickable {
		if err := d.waitEnabled(ctx, handle, deadline); err != nil {
			return nil, &ElementNotFoundError{
				By: by, Selector: selector, State: state, Timeout: timeout, Cause: err,
			}
		}
	}

	return el, nil
}

// waitEnabled polls the engine's enabled heuristic until the deadline. The
// heuristic has known false negatives, which is why EnsureClick retries
// independently of it.
func (d *PlaywrightDriver) waitEnabled(ctx context.Context, handle playwright.ElementHandle, deadline time.Time) error {
	for {
		enabled, err := handle.IsEnabled()
		if err != nil {
			return err
		}
		if enabled {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("element never became enabled")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(clickablePollInterval):
		}
	}
}

// pwElement wraps the engine's native element handle and carries the robust
// click capability as an explicit method.
type pwElement struct {
	handle playwright.ElementHandle
	logger *slog.Logger
}

// Click performs a single native click.
func (e *pwElement) Click(ctx context.Context) error {
	return e.handle.Click()
}

// EnsureClick centers the element in the viewport, then clicks with the
// bounded retry loop.
func (e *pwElement) EnsureClick(ctx context.Context) error {
	scroll := func() error {
		_, err := e.handle.Evaluate(centerScrollScript)
		return err
	}
	click := func() error {
		return e.handle.Click()
	}
	return clickWithRetry(ctx, scroll, click)
}

// Fill sets the element's value.
func (e *pwElement) Fill(ctx context.Context, value string) error {
	return e.handle.Fill(value)
}

// Text returns the element's text content.
func (e *pwElement) Text(ctx context.Context) (string, error) {
	text, err := e.handle.TextContent()
	if err != nil {
		return "", err
	}
	return text, nil
}

// IsVisible reports whether the element is rendered visibly.
func (e *pwElement) IsVisible(ctx context.Context) (bool, error) {
	return e.handle.IsVisible()
}
