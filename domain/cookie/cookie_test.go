package cookie

import "testing"

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{".example.com", "example.com"},
		{"example.com", "example.com"},
		{"..example.com", ".example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeDomain(tt.in); got != tt.want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCookie_Matches(t *testing.T) {
	c := Cookie{Name: "sid", Value: "1", Domain: "login.site.com"}

	if !c.Matches("site.com") {
		t.Error("expected cookie on login.site.com to match site.com")
	}
	if c.Matches("other.com") {
		t.Error("did not expect cookie on login.site.com to match other.com")
	}

	// The substring match is intentionally loose.
	loose := Cookie{Name: "sid", Value: "1", Domain: "notsite.com"}
	if !loose.Matches("site.com") {
		t.Error("substring matching should match notsite.com against site.com")
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		in         string
		registered string
		subdomain  string
		fqdn       string
	}{
		{"http://www.example.co.uk/path", "example.co.uk", "www", "www.example.co.uk"},
		{"https://example.com", "example.com", "", "example.com"},
		{"login.site.com", "site.com", "login", "login.site.com"},
		{".site.com", "site.com", "", "site.com"},
		{"site.com:8080", "site.com", "", "site.com"},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		parts := Extract(tt.in)
		if parts.RegisteredDomain != tt.registered {
			t.Errorf("Extract(%q).RegisteredDomain = %q, want %q", tt.in, parts.RegisteredDomain, tt.registered)
		}
		if parts.Subdomain != tt.subdomain {
			t.Errorf("Extract(%q).Subdomain = %q, want %q", tt.in, parts.Subdomain, tt.subdomain)
		}
		if parts.FQDN != tt.fqdn {
			t.Errorf("Extract(%q).FQDN = %q, want %q", tt.in, parts.FQDN, tt.fqdn)
		}
	}
}

func TestExtract_Unresolvable(t *testing.T) {
	// Single labels and addresses have no registrable domain; the FQDN is
	// still reported so callers can fall back to it.
	parts := Extract("localhost")
	if parts.RegisteredDomain != "" {
		t.Errorf("RegisteredDomain = %q, want empty for localhost", parts.RegisteredDomain)
	}
	if parts.FQDN != "localhost" {
		t.Errorf("FQDN = %q, want localhost", parts.FQDN)
	}
}
