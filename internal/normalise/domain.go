package normalise

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RootDomain extracts the registrable label of a domain, the most
// reliable cross-record company signal: "maaden.com.sa" -> "maaden",
// "www.acme.co.uk" -> "acme". Accepts bare domains, hosts with
// subdomains, and full URLs. Blank input returns the empty string;
// input the public-suffix list cannot place falls back to the cleaned,
// lowercased host.
func RootDomain(domain string) string {
	host := cleanHost(domain)
	if host == "" {
		return ""
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil || etld1 == "" {
		return host
	}

	suffix, _ := publicsuffix.PublicSuffix(etld1)
	label := strings.TrimSuffix(etld1, "."+suffix)
	if label == "" || label == etld1 {
		return host
	}
	return label
}

// Domain lowercases and trims a raw domain value without touching its
// structure. Used where the exact domain string is the identity signal.
func Domain(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// cleanHost reduces a domain-ish string (possibly a URL) to a bare
// lowercased host.
func cleanHost(domain string) string {
	host := strings.ToLower(strings.TrimSpace(domain))
	if host == "" {
		return ""
	}
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.Index(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	return strings.Trim(host, ".")
}
