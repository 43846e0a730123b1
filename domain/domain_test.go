package domain

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		netloc    string
		subdomain string
		domain    string
		suffix    string
	}{
		{"www.bbc.co.uk", "www", "bbc", "co.uk"},
		{"bbc.co.uk", "", "bbc", "co.uk"},
		{"imgs.xkcd.com", "imgs", "xkcd", "com"},
		{"hub.docker.com", "hub", "docker", "com"},
		{"a.b.bbc.co.uk", "a.b", "bbc", "co.uk"},
		{"127.0.0.1", "", "127.0.0.1", ""},
		{"localhost", "", "localhost", ""},
		{"localhost.localdomain", "localhost", "localdomain", ""},
		{"co.uk", "", "", "co.uk"},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.netloc, func(t *testing.T) {
			d := Extract(tt.netloc)
			assert.Equal(t, tt.subdomain, d.Subdomain)
			assert.Equal(t, tt.domain, d.Domain)
			assert.Equal(t, tt.suffix, d.Suffix)
		})
	}
}

func TestExtractStripsPortAndUserinfo(t *testing.T) {
	d := Extract("www.bbc.co.uk:8080")
	assert.Equal(t, "www", d.Subdomain)
	assert.Equal(t, "bbc", d.Domain)
	assert.Equal(t, "co.uk", d.Suffix)

	d = Extract("user@bbc.co.uk:443")
	assert.Equal(t, "bbc", d.Domain)

	d = Extract("127.0.0.1:8000")
	assert.Equal(t, "127.0.0.1", d.Domain)
	assert.Empty(t, d.Suffix)
}

func TestExtractLowercases(t *testing.T) {
	d := Extract("GitHub.COM")
	assert.Equal(t, "github", d.Domain)
	assert.Equal(t, "com", d.Suffix)
}

func TestExtractUnicode(t *testing.T) {
	d := Extract("www.bücher.de")
	assert.Equal(t, "www", d.Subdomain)
	assert.Equal(t, "bücher", d.Domain)
	assert.Equal(t, "de", d.Suffix)

	// Malformed punycode must not panic or error; the label stays opaque.
	d = Extract("xn--zzzzzz-9999999999.example")
	assert.NotEmpty(t, d.Domain)
}

func TestIPv4(t *testing.T) {
	t.Run("dotted quad", func(t *testing.T) {
		d := Extract("127.0.0.1")
		assert.Equal(t, net.IPv4(127, 0, 0, 1).To4(), d.IPv4())
		assert.Empty(t, d.Subdomain)
		assert.Empty(t, d.Suffix)
	})

	t.Run("too many octets", func(t *testing.T) {
		assert.Nil(t, Extract("127.0.0.1.1").IPv4())
	})

	t.Run("octet out of range", func(t *testing.T) {
		assert.Nil(t, Extract("256.1.1.1").IPv4())
	})

	t.Run("hostname", func(t *testing.T) {
		assert.Nil(t, Extract("www.bbc.co.uk").IPv4())
	})
}

func TestRegisteredDomain(t *testing.T) {
	assert.Equal(t, "python.org", Domain{Subdomain: "docs", Domain: "python", Suffix: "org"}.RegisteredDomain())
	assert.Equal(t, "", Domain{Domain: "localhost"}.RegisteredDomain())
	assert.Equal(t, "", Domain{Domain: "127.0.0.1"}.RegisteredDomain())
	assert.Equal(t, "", Domain{Suffix: "co.uk"}.RegisteredDomain())
}

func TestFQDN(t *testing.T) {
	assert.Equal(t, "docs.python.org", Domain{Subdomain: "docs", Domain: "python", Suffix: "org"}.FQDN())
	assert.Equal(t, "python.org", Domain{Domain: "python", Suffix: "org"}.FQDN())
	assert.Equal(t, "", Domain{Domain: "127.0.0.1"}.FQDN())
	assert.Equal(t, "", Domain{Domain: "localhost"}.FQDN())
}
