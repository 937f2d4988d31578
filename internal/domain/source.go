package domain

import (
	"net"
	"net/netip"
	"slices"
	"strings"
)

// DefaultAllowedIPs is the fixed set of payment-provider addresses allowed to post IPNs.
var DefaultAllowedIPs = []string{
	"85.236.153.138",
	"5.196.68.13",
	"172.27.0.1",
	"127.0.0.1",
	"202.61.204.128",
	"81.169.213.163",
}

// NormalizeIP turns a remote address ("host:port" or a bare host) into the literal
// form compared against the allowlist, stripping IPv4-mapped IPv6 notation.
func NormalizeIP(remoteAddr string) string {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}

	host = strings.TrimPrefix(host, "::ffff:")

	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.Unmap().String()
	}
	return host
}

// Allowlist holds literal source addresses.
type Allowlist struct {
	ips []string
}

func NewAllowlist(ips []string) *Allowlist {
	normalized := make([]string, 0, len(ips))
	for _, ip := range ips {
		normalized = append(normalized, NormalizeIP(ip))
	}
	return &Allowlist{ips: normalized}
}

// Allows reports whether the already normalized ip is in the list.
func (a *Allowlist) Allows(ip string) bool {
	return slices.Contains(a.ips, ip)
}
