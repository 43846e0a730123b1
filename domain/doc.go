// Package domain splits hostnames into subdomain, registrable domain and
// public suffix using the embedded public suffix list.
//
// Extract accepts a netloc as found in a URL: userinfo and port are
// stripped before decomposition. IPv4 literals are detected and reported
// whole in the Domain field; hosts without a known public suffix (single
// labels, private names such as "localhost") keep an empty Suffix.
package domain
