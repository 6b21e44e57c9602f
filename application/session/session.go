// Package session composes a cookie-aware HTTP client and a lazily started
// browser driver into one session, keeping authentication state consistent
// between both paths.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reqbridge/domain/cookie"
	"reqbridge/infrastructure/browser"
)

// defaultUserAgent is the spoofed desktop user-agent used when none is
// configured, so the HTTP path doesn't announce itself as a Go program and
// matches what the browser is told to present.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Config holds configuration for creating a Session.
type Config struct {
	// Browser is the engine to drive: "chrome" or "firefox".
	Browser string

	// DefaultTimeout bounds HTTP requests and browser waits.
	DefaultTimeout time.Duration

	// Headless runs the browser without a visible window.
	Headless bool

	// HTTPProxy and SSLProxy are proxy endpoints in host:port form.
	// Proxying takes effect only when both are set.
	HTTPProxy string
	SSLProxy  string

	// UserAgent is the outgoing user-agent for both paths. Empty selects
	// the spoofed desktop default.
	UserAgent string

	// Logger receives session diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns default session configuration.
func DefaultConfig() *Config {
	return &Config{
		Browser:        string(browser.EngineFirefox),
		DefaultTimeout: 30 * time.Second,
		Headless:       true,
	}
}

// Session owns one HTTP client state (cookie jar, user-agent, last visited
// URL) and at most one lazily created browser driver. A Session is not safe
// for concurrent use; run one Session per scraping worker.
type Session struct {
	logger *slog.Logger

	client    *http.Client
	jar       *cookie.Jar
	userAgent string
	lastURL   string

	driver    browser.Driver
	newDriver func() (browser.Driver, error)
}

// New creates a Session. The browser name is validated here, before any
// process is started; an unsupported name fails immediately.
func New(cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 30 * time.Second
	}

	engine, err := browser.ParseEngine(cfg.Browser)
	if err != nil {
		return nil, err
	}

	jar, err := cookie.NewJar()
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if cfg.HTTPProxy != "" && cfg.SSLProxy != "" {
		httpProxy, err := url.Parse("http://" + cfg.HTTPProxy)
		if err != nil {
			return nil, fmt.Errorf("invalid http proxy %q: %w", cfg.HTTPProxy, err)
		}
		sslProxy, err := url.Parse("http://" + cfg.SSLProxy)
		if err != nil {
			return nil, fmt.Errorf("invalid ssl proxy %q: %w", cfg.SSLProxy, err)
		}
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "https" {
				return sslProxy, nil
			}
			return httpProxy, nil
		}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	s := &Session{
		logger: cfg.Logger,
		jar:    jar,
		client: &http.Client{
			Jar:       jar,
			Transport: transport,
			Timeout:   cfg.DefaultTimeout,
		},
		userAgent: ua,
	}

	s.newDriver = func() (browser.Driver, error) {
		return browser.NewPlaywrightDriver(&browser.Config{
			Engine:         engine,
			Headless:       cfg.Headless,
			DefaultTimeout: cfg.DefaultTimeout,
			UserAgent:      s.userAgent,
			HTTPProxy:      cfg.HTTPProxy,
			SSLProxy:       cfg.SSLProxy,
			Logger:         cfg.Logger,
		})
	}

	return s, nil
}

// Driver returns the browser driver, constructing and starting it on first
// access. A driver that fails to start is not kept, so a later access
// retries; once started it persists for the Session's lifetime and is never
// restarted automatically.
func (s *Session) Driver(ctx context.Context) (browser.Driver, error) {
	if s.driver != nil {
		return s.driver, nil
	}

	d, err := s.newDriver()
	if err != nil {
		return nil, err
	}
	if err := d.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	s.driver = d
	return d, nil
}

// Get issues a GET request and updates the last visited URL.
func (s *Session) Get(ctx context.Context, rawURL string) (*Response, error) {
	return s.do(ctx, http.MethodGet, rawURL, "", nil)
}

// Post issues a POST request with the given body and content type.
func (s *Session) Post(ctx context.Context, rawURL, contentType string, body io.Reader) (*Response, error) {
	return s.do(ctx, http.MethodPost, rawURL, contentType, body)
}

// PostForm issues a POST request with form-encoded values.
func (s *Session) PostForm(ctx context.Context, rawURL string, data url.Values) (*Response, error) {
	return s.do(ctx, http.MethodPost, rawURL,
		"application/x-www-form-urlencoded", strings.NewReader(data.Encode()))
}

// Put issues a PUT request with the given body and content type.
func (s *Session) Put(ctx context.Context, rawURL, contentType string, body io.Reader) (*Response, error) {
	return s.do(ctx, http.MethodPut, rawURL, contentType, body)
}

func (s *Session) do(ctx context.Context, method, rawURL, contentType string, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, rawURL, err)
	}

	r, err := newResponse(resp)
	if err != nil {
		return nil, err
	}

	// Record the post-redirect URL; it is the default scope for cookie
	// transfer when the caller gives no domain.
	s.lastURL = r.URL.String()
	s.logger.Debug("http request done",
		"method", method, "url", s.lastURL, "status", r.StatusCode)

	return r, nil
}

// LastURL returns the final URL of the most recent successful request, or
// empty when nothing has been fetched yet.
func (s *Session) LastURL() string {
	return s.lastURL
}

// UserAgent returns the session's current outgoing user-agent.
func (s *Session) UserAgent() string {
	return s.userAgent
}

// Jar exposes the session's enumerable cookie jar.
func (s *Session) Jar() *cookie.Jar {
	return s.jar
}
