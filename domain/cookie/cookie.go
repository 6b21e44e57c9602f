// Package cookie defines the cookie value type shared by the HTTP and
// browser paths, plus domain normalization and an enumerable jar.
package cookie

import (
	"strings"
	"time"
)

// Cookie is the semantic cookie tuple transferred between the HTTP jar and
// the browser store. Values are always copied, never shared.
type Cookie struct {
	Name   string
	Value  string
	Domain string
	Path   string
	// Expires is the expiry time; the zero value means a session cookie.
	Expires time.Time
}

// NormalizeDomain strips a single leading dot, the "include subdomains"
// marker some stores prepend to cookie domains.
func NormalizeDomain(domain string) string {
	return strings.TrimPrefix(domain, ".")
}

// Matches reports whether the cookie belongs to the given domain using the
// same substring test the transfer layer applies. The match is deliberately
// loose: "site.com" also matches "notsite.com". Callers that need strict
// scoping should pass a fully qualified domain.
func (c Cookie) Matches(domain string) bool {
	return strings.Contains(c.Domain, domain)
}

// SameIdentity reports whether two cookies refer to the same jar entry,
// keyed by name and domain.
func (c Cookie) SameIdentity(other Cookie) bool {
	return c.Name == other.Name && c.Domain == other.Domain
}
