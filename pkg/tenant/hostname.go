package tenant

import "strings"

// Normalize canonicalizes a raw Host header value: everything from the first
// ":" (the port) is discarded and the remainder is lowercased. Normalize is
// idempotent and never fails.
func Normalize(host string) string {
	if idx := strings.IndexByte(host, ':'); idx != -1 {
		host = host[:idx]
	}
	return strings.ToLower(strings.TrimSpace(host))
}

// Slug extracts the tenant slug from a hostname relative to the configured
// base domain: "acme.rentals.io" with base domain "rentals.io" yields "acme".
// A hostname that does not end with "."+baseDomain (a custom domain or the
// base domain itself) yields the empty string.
func Slug(host, baseDomain string) string {
	host = Normalize(host)
	suffix := "." + Normalize(baseDomain)
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	slug := strings.TrimSuffix(host, suffix)
	if slug == "" || strings.Contains(slug, ".") {
		return ""
	}
	return slug
}

// IsMainDomain reports whether the hostname addresses the platform itself
// rather than a tenant: the base domain, its www alias, or localhost
// (including localhost subdomains used in development).
func IsMainDomain(host, baseDomain string) bool {
	host = Normalize(host)
	base := Normalize(baseDomain)
	if host == base || host == "www."+base {
		return true
	}
	return host == "localhost" || strings.HasPrefix(host, "localhost")
}
