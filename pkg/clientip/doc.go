// Package clientip extracts the real client IP address from HTTP requests.
//
// Deployments behind CDNs, load balancers, or reverse proxies see the proxy's
// address in RemoteAddr; the originating client address travels in forwarding
// headers. GetIP consults those headers in priority order (Cloudflare first,
// then the standard X-Forwarded-For chain, then X-Real-IP) and falls back to
// RemoteAddr for direct connections.
//
// All candidate values are validated with net.ParseIP and returned in
// normalized form, so callers can compare addresses with plain string
// equality:
//
//	ip := clientip.GetIP(r)
//	if ip != storedIP {
//		// address changed since the session was issued
//	}
package clientip
