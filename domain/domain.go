package domain

import (
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// Domain is the decomposition of a hostname into subdomain, registrable
// domain and public suffix. For IPv4 literals the whole address sits in
// Domain and the other fields are empty.
type Domain struct {
	Subdomain string
	Domain    string
	Suffix    string
}

// Dotted-quad shape; range validation is left to net.ParseIP.
var ipv4Pattern = regexp.MustCompile(`^(?:\d{1,3}\.){3}\d{1,3}$`)

// Extract decomposes a netloc. Userinfo and port are stripped first; the
// remaining host is matched against the public suffix list, longest suffix
// first. Hosts without an ICANN-listed suffix (single labels, private
// names) are reported with an empty Suffix and the final label in Domain.
// Hostnames are lowercased; malformed punycode labels are kept opaque
// rather than rejected.
func Extract(netloc string) Domain {
	host := stripNetloc(netloc)
	if host == "" {
		return Domain{}
	}

	if ipv4Pattern.MatchString(host) && net.ParseIP(host) != nil {
		return Domain{Domain: host}
	}

	labels := strings.Split(host, ".")
	suffixLen := suffixLabels(host)

	d := Domain{}
	if suffixLen > 0 && suffixLen <= len(labels) {
		d.Suffix = strings.Join(labels[len(labels)-suffixLen:], ".")
		labels = labels[:len(labels)-suffixLen]
	}
	if len(labels) > 0 {
		d.Domain = labels[len(labels)-1]
		d.Subdomain = strings.Join(labels[:len(labels)-1], ".")
	}
	return d
}

// suffixLabels returns how many trailing labels of host form its public
// suffix, or 0 when no listed suffix applies.
func suffixLabels(host string) int {
	// Suffix matching operates on the ASCII (punycode) form; label counts
	// carry back to the original host. Undecodable labels fall through
	// unchanged.
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		ascii = host
	}

	suffix, icann := publicsuffix.PublicSuffix(ascii)
	if suffix == "" {
		return 0
	}
	n := strings.Count(suffix, ".") + 1
	if icann {
		return n
	}
	// A non-ICANN multi-label match comes from the private section of the
	// list; a single label means the wildcard default rule hit an unknown
	// TLD, which decomposes as an ordinary label instead.
	if n > 1 {
		return n
	}
	return 0
}

func stripNetloc(netloc string) string {
	host := strings.ToLower(strings.TrimSpace(netloc))
	if at := strings.LastIndex(host, "@"); at != -1 {
		host = host[at+1:]
	}
	if strings.HasPrefix(host, "[") {
		// Bracketed IPv6 literal; kept opaque.
		if end := strings.Index(host, "]"); end != -1 {
			return host[1:end]
		}
	}
	if colon := strings.LastIndex(host, ":"); colon != -1 {
		port := host[colon+1:]
		if port != "" && strings.Trim(port, "0123456789") == "" {
			host = host[:colon]
		}
	}
	return strings.TrimSuffix(host, ".")
}

// RegisteredDomain returns domain suffixed with the public suffix, or ""
// when either part is missing.
func (d Domain) RegisteredDomain() string {
	if d.Domain == "" || d.Suffix == "" {
		return ""
	}
	return d.Domain + "." + d.Suffix
}

// FQDN returns the fully qualified name, or "" when no registrable domain
// exists.
func (d Domain) FQDN() string {
	if d.Domain == "" || d.Suffix == "" {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Subdomain, d.Domain, d.Suffix} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// IPv4 returns the parsed address when the decomposed host was an IPv4
// literal, and nil otherwise.
func (d Domain) IPv4() net.IP {
	if d.Subdomain != "" || d.Suffix != "" {
		return nil
	}
	if !ipv4Pattern.MatchString(d.Domain) {
		return nil
	}
	ip := net.ParseIP(d.Domain)
	if ip == nil {
		return nil
	}
	return ip.To4()
}
