package cookie

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Parts is the decomposition of a hostname under public-suffix rules.
type Parts struct {
	// Subdomain is everything left of the registered domain ("www" in
	// "www.example.co.uk"), empty when the host is the registered domain.
	Subdomain string

	// RegisteredDomain is the effective TLD plus one ("example.co.uk").
	RegisteredDomain string

	// FQDN is the full hostname as given, lowercased.
	FQDN string
}

// Extract decomposes a URL or bare host string into its domain parts.
// Inputs that cannot be resolved to a registrable domain (IP addresses,
// single labels, empty strings) yield zero or partial Parts, never an error:
// callers treat an empty field as "unknown".
func Extract(urlOrHost string) Parts {
	host := hostOf(urlOrHost)
	if host == "" {
		return Parts{}
	}

	registered, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return Parts{FQDN: host}
	}

	sub := strings.TrimSuffix(host, registered)
	sub = strings.TrimSuffix(sub, ".")

	return Parts{
		Subdomain:        sub,
		RegisteredDomain: registered,
		FQDN:             host,
	}
}

// hostOf pulls the hostname out of a URL, or treats the input as a bare
// host when it does not parse as one.
func hostOf(urlOrHost string) string {
	s := strings.TrimSpace(urlOrHost)
	if s == "" {
		return ""
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return ""
		}
		return strings.ToLower(u.Hostname())
	}

	// Bare host, possibly with a port or leading dot.
	s = strings.TrimPrefix(s, ".")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}
