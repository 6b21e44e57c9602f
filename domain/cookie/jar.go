package cookie

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// Jar is an enumerable cookie jar. It wraps net/http/cookiejar for standard
// request/response handling and additionally records every cookie it has
// seen keyed by (name, domain), because the standard jar offers no way to
// list its contents and the browser transfer layer needs exactly that.
type Jar struct {
	mu    sync.Mutex
	inner *cookiejar.Jar
	all   map[jarKey]Cookie
}

type jarKey struct {
	name   string
	domain string
}

// NewJar creates an empty jar backed by the embedded public suffix list.
func NewJar() (*Jar, error) {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Jar{
		inner: inner,
		all:   make(map[jarKey]Cookie),
	}, nil
}

// SetCookies records the cookies and delegates to the underlying jar.
// Implements http.CookieJar, so an http.Client can use the Jar directly.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	for _, hc := range cookies {
		domain := hc.Domain
		if domain == "" {
			// Host-only cookie: scoped to the request host.
			domain = u.Hostname()
		}
		c := Cookie{
			Name:    hc.Name,
			Value:   hc.Value,
			Domain:  domain,
			Path:    hc.Path,
			Expires: hc.Expires,
		}
		if hc.MaxAge < 0 {
			delete(j.all, jarKey{c.Name, c.Domain})
		} else {
			j.all[jarKey{c.Name, c.Domain}] = c
		}
	}
	j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Set inserts or overwrites a single cookie, keyed by (name, domain).
// The cookie is also planted in the underlying jar under a synthetic
// http URL for its domain so that subsequent requests send it.
func (j *Jar) Set(c Cookie) error {
	domain := NormalizeDomain(c.Domain)
	if domain == "" {
		return fmt.Errorf("cannot set cookie %q without a domain", c.Name)
	}

	u, err := url.Parse("http://" + domain)
	if err != nil {
		return fmt.Errorf("invalid cookie domain %q: %w", c.Domain, err)
	}

	path := c.Path
	if path == "" {
		path = "/"
	}

	j.inner.SetCookies(u, []*http.Cookie{{
		Name:    c.Name,
		Value:   c.Value,
		Domain:  c.Domain,
		Path:    path,
		Expires: c.Expires,
	}})

	j.mu.Lock()
	j.all[jarKey{c.Name, c.Domain}] = c
	j.mu.Unlock()

	return nil
}

// All returns every recorded cookie, ordered by domain then name.
func (j *Jar) All() []Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	cookies := make([]Cookie, 0, len(j.all))
	for _, c := range j.all {
		cookies = append(cookies, c)
	}
	sort.Slice(cookies, func(a, b int) bool {
		if cookies[a].Domain != cookies[b].Domain {
			return cookies[a].Domain < cookies[b].Domain
		}
		return cookies[a].Name < cookies[b].Name
	})
	return cookies
}

// Matching returns the recorded cookies whose domain contains the given
// domain as a substring, in the same order as All.
func (j *Jar) Matching(domain string) []Cookie {
	all := j.All()
	matched := all[:0]
	for _, c := range all {
		if c.Matches(domain) {
			matched = append(matched, c)
		}
	}
	return matched
}
