package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientIdentifier derives the stable string key that partitions rate-limit
// state. It is a pure function of the request: an explicit identity header
// wins, otherwise the network origin address is used, so a key always
// exists. Clients behind a shared NAT address collapse onto one key; that is
// an accepted limitation.
type ClientIdentifier struct {
	header string
}

// NewClientIdentifier returns an identifier that consults the given header
// before falling back to the origin address. An empty header name selects
// DefaultIdentityHeader.
func NewClientIdentifier(header string) ClientIdentifier {
	if header == "" {
		header = DefaultIdentityHeader
	}
	return ClientIdentifier{header: header}
}

// Identify returns the client key for r. It never fails.
func (ci ClientIdentifier) Identify(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(ci.header)); v != "" {
		return v
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil || host == "" {
		host = strings.TrimSpace(r.RemoteAddr)
	}
	// Canonical form so e.g. an IPv4-mapped IPv6 address and its plain IPv4
	// spelling share a counter.
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	if host == "" {
		return "unknown"
	}
	return host
}
