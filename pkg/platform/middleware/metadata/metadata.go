package metadata

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"jotter/pkg/requestcontext"
)

// MaxForwardedHeaderLength bounds X-Forwarded-For / X-Real-IP before parsing.
const MaxForwardedHeaderLength = 500

// Config lists proxies (CIDR) allowed to set forwarding headers. Empty means
// forwarding headers are never trusted.
type Config struct {
	TrustedProxies []netip.Prefix
}

// Middleware stores client IP and User-Agent in the request context.
type Middleware struct {
	trusted []netip.Prefix
}

func NewMiddleware(cfg *Config) *Middleware {
	if cfg == nil {
		return &Middleware{}
	}
	return &Middleware{trusted: cfg.TrustedProxies}
}

// ParseTrustedProxies parses a comma-separated CIDR list, skipping blanks.
func ParseTrustedProxies(csv string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := netip.ParsePrefix(part)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientIP(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) clientIP(r *http.Request) string {
	remote := remoteIP(r.RemoteAddr)
	if remote == "" {
		return "unknown"
	}
	if !m.isTrusted(remote) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if len(xff) > MaxForwardedHeaderLength {
			return remote
		}
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if _, err := netip.ParseAddr(first); err != nil {
			return remote
		}
		return first
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && len(xri) <= MaxForwardedHeaderLength {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return remote
}

func (m *Middleware) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, p := range m.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteIP(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.Trim(remoteAddr, "[]")
	}
	return host
}
