package session

import (
	"context"
	"fmt"
	"strings"

	"reqbridge/domain/cookie"
	"reqbridge/infrastructure/browser"
)

// PushCookiesToDriver copies the session's cookies for the given domain into
// the browser; each cookie keeps its own domain scope. With an empty domain
// the registrable domain of the last visited URL is used; if nothing has been
// visited either, ErrMissingDomain is returned before the browser is touched.
func (s *Session) PushCookiesToDriver(ctx context.Context, domain string) error {
	domain, err := s.resolveDomain(domain)
	if err != nil {
		return err
	}

	d, err := s.Driver(ctx)
	if err != nil {
		return err
	}

	pushed := 0
	for _, c := range s.jar.Matching(domain) {
		if err := s.EnsureCookieAdded(ctx, d, c, ""); err != nil {
			return err
		}
		pushed++
	}

	s.logger.Debug("cookies pushed to browser", "domain", domain, "count", pushed)
	return nil
}

// EnsureCookieAdded injects one cookie into the browser and verifies it took
// hold. A non-empty overrideDomain replaces the cookie's own domain first.
// When the browser is not on the cookie's site it navigates there before
// adding, since browsers refuse cookies for unrelated origins. A cookie the
// browser silently drops is retried once with the domain widened to the
// registrable domain; a second failure is CookieInjectionError.
func (s *Session) EnsureCookieAdded(ctx context.Context, d browser.Driver, c cookie.Cookie, overrideDomain string) error {
	if overrideDomain != "" {
		c.Domain = overrideDomain
	}
	if c.Domain == "" {
		return ErrMissingDomain
	}
	cookieDomain := cookie.NormalizeDomain(c.Domain)

	current, err := d.CurrentURL(ctx)
	if err != nil {
		return err
	}
	browserFQDN := cookie.Extract(current).FQDN
	if !strings.Contains(browserFQDN, cookieDomain) {
		if err := d.Navigate(ctx, "http://"+cookieDomain+"/"); err != nil {
			return fmt.Errorf("failed to open %s before adding cookie: %w", cookieDomain, err)
		}
	}

	// Add errors are logged rather than returned: the verification pass
	// below is the real acceptance check, and it drives the retry.
	if err := d.AddCookie(ctx, c); err != nil {
		s.logger.Debug("cookie add rejected", "cookie", c.Name, "error", err)
	}
	ok, err := cookieInDriver(ctx, d, c)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	registrable := cookie.Extract(cookieDomain).RegisteredDomain
	if registrable == "" {
		registrable = cookieDomain
	}

	widened := c
	widened.Domain = "." + registrable
	s.logger.Debug("retrying cookie with widened domain",
		"cookie", c.Name, "domain", widened.Domain)

	if err := d.AddCookie(ctx, widened); err != nil {
		s.logger.Debug("cookie add rejected", "cookie", widened.Name, "error", err)
	}
	ok, err = cookieInDriver(ctx, d, widened)
	if err != nil {
		return err
	}
	if !ok {
		return &CookieInjectionError{Cookie: c}
	}
	return nil
}

// PullCookiesFromDriver copies every browser cookie into the session's jar,
// overwriting same-name same-domain entries. With copyUserAgent the session
// also adopts the browser's real user-agent for subsequent HTTP requests.
func (s *Session) PullCookiesFromDriver(ctx context.Context, copyUserAgent bool) error {
	d, err := s.Driver(ctx)
	if err != nil {
		return err
	}

	cookies, err := d.Cookies(ctx)
	if err != nil {
		return err
	}
	for _, c := range cookies {
		if err := s.jar.Set(c); err != nil {
			return err
		}
	}
	s.logger.Debug("cookies pulled from browser", "count", len(cookies))

	if copyUserAgent {
		return s.CopyUserAgentFromDriver(ctx)
	}
	return nil
}

// CopyUserAgentFromDriver asks the running browser for its real user-agent
// and adopts it for the HTTP path, so both halves of the session present
// identically.
func (s *Session) CopyUserAgentFromDriver(ctx context.Context) error {
	d, err := s.Driver(ctx)
	if err != nil {
		return err
	}

	v, err := d.ExecuteScript(ctx, "() => navigator.userAgent")
	if err != nil {
		return fmt.Errorf("failed to read browser user-agent: %w", err)
	}
	ua, ok := v.(string)
	if !ok || ua == "" {
		return fmt.Errorf("browser returned unusable user-agent: %v", v)
	}

	s.userAgent = ua
	return nil
}

// resolveDomain picks the transfer domain: the explicit argument wins,
// otherwise the registrable domain of the last visited URL.
func (s *Session) resolveDomain(domain string) (string, error) {
	if domain != "" {
		return cookie.NormalizeDomain(domain), nil
	}
	if s.lastURL == "" {
		return "", ErrMissingDomain
	}

	parts := cookie.Extract(s.lastURL)
	if parts.RegisteredDomain == "" {
		return "", ErrMissingDomain
	}
	return parts.RegisteredDomain, nil
}

// cookieInDriver reports whether the browser now holds a cookie with the
// same name and value. The domain must match exactly or differ only by the
// leading dot browsers add to host-wide cookies.
func cookieInDriver(ctx context.Context, d browser.Driver, c cookie.Cookie) (bool, error) {
	held, err := d.Cookies(ctx)
	if err != nil {
		return false, err
	}

	want := cookie.NormalizeDomain(c.Domain)
	for _, h := range held {
		if h.Name != c.Name || h.Value != c.Value {
			continue
		}
		if cookie.NormalizeDomain(h.Domain) == want {
			return true, nil
		}
	}
	return false, nil
}
