// Package browser provides browser automation infrastructure: a driver
// abstraction over a real browser engine, deterministic element waiting,
// and a click primitive hardened against scroll/render timing races.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reqbridge/domain/cookie"
)

// Engine selects which browser the driver launches. The driver is a single
// implementation that dispatches on this value rather than one type per
// engine.
type Engine string

const (
	EngineChrome  Engine = "chrome"
	EngineFirefox Engine = "firefox"
)

// ParseEngine validates a browser name. Anything outside {chrome, firefox}
// fails immediately with ErrInvalidEngine.
func ParseEngine(name string) (Engine, error) {
	switch Engine(name) {
	case EngineChrome, EngineFirefox:
		return Engine(name), nil
	}
	return "", fmt.Errorf("%w, not: %q", ErrInvalidEngine, name)
}

// Driver defines the browser operations the session layer depends on.
// Implementations run one external browser process; calls are expected to be
// issued sequentially by a single caller.
type Driver interface {
	// Start launches the browser process. Calling Start on a running
	// driver is an error.
	Start(ctx context.Context) error

	// Stop closes the browser and releases resources. The session layer
	// never calls this implicitly; process teardown is the caller's job.
	Stop() error

	// IsRunning returns true if the browser is active.
	IsRunning() bool

	// Navigate loads the given URL in the current page.
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns the URL of the current page.
	CurrentURL(ctx context.Context) (string, error)

	// PageSource returns the rendered HTML of the current page.
	PageSource(ctx context.Context) (string, error)

	// ExecuteScript evaluates JavaScript in the page and returns its result.
	// At most one argument is forwarded to the script.
	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)

	// Cookies returns the cookies currently held by the browser.
	Cookies(ctx context.Context) ([]cookie.Cookie, error)

	// AddCookie submits a cookie to the browser's native cookie store.
	// Engines refuse cookies for domains they are not currently on; callers
	// that need a guarantee should use the session's cookie transfer, which
	// navigates first and verifies afterwards.
	AddCookie(ctx context.Context, c cookie.Cookie) error

	// WaitFor blocks until the element located by (by, selector) reaches the
	// given state, or the timeout elapses. A timeout of zero or less uses
	// the driver default. For StateInvisible a nil Element is returned on
	// success; for all other states the returned Element is non-nil.
	// Timeout surfaces as *ElementNotFoundError; an invalid by or state
	// fails immediately without waiting.
	WaitFor(ctx context.Context, by By, selector string, state State, timeout time.Duration) (Element, error)
}

// Element is a handle to a located DOM element, augmented with a click
// operation that compensates for engine timing bugs.
type Element interface {
	// Click performs a single native click.
	Click(ctx context.Context) error

	// EnsureClick scrolls the element to the middle of the viewport, then
	// clicks, retrying on engine interaction errors with a fixed backoff.
	// After 10 failed attempts it returns *ClickFailedError.
	EnsureClick(ctx context.Context) error

	// Fill sets the element's value, for inputs and textareas.
	Fill(ctx context.Context, value string) error

	// Text returns the element's text content.
	Text(ctx context.Context) (string, error)

	// IsVisible reports whether the element is currently rendered visibly.
	IsVisible(ctx context.Context) (bool, error)
}

// Config holds configuration for creating a driver.
type Config struct {
	// Engine is the browser to launch.
	Engine Engine

	// Headless runs the browser without a visible window.
	Headless bool

	// DefaultTimeout bounds waits and element operations when no explicit
	// timeout is given.
	DefaultTimeout time.Duration

	// UserAgent overrides the browser's user-agent string. The session
	// layer passes its own outgoing user-agent here so both paths present
	// the same fingerprint.
	UserAgent string

	// HTTPProxy and SSLProxy are proxy endpoints in host:port form. The
	// proxy is applied only when both are set; a partial configuration
	// results in no proxy at all.
	HTTPProxy string
	SSLProxy  string

	// Logger receives driver diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns default driver configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine:         EngineFirefox,
		Headless:       true,
		DefaultTimeout: 30 * time.Second,
	}
}
