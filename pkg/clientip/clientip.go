package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the client IP address for an HTTP request.
//
// Proxy headers are consulted in priority order before falling back to the
// connection's remote address:
//  1. CF-Connecting-IP (Cloudflare)
//  2. X-Forwarded-For (standard proxy chain, first valid entry wins)
//  3. X-Real-IP (nginx)
//  4. RemoteAddr
//
// The returned value is always a normalized IP string, or empty if nothing
// in the request parses as a valid address.
func GetIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For may carry a comma-separated chain; the first
		// valid entry is the originating client.
		for part := range strings.SplitSeq(forwarded, ",") {
			if ip := parseIP(part); ip != "" {
				return ip
			}
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, assume it is already a bare IP.
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
// Returns empty string for anything that does not parse.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
