package api

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type keyType string

const adminTokenKey keyType = "adminToken"

// ctxWithAdminToken marks the request as carrying a verified admin session.
func ctxWithAdminToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, adminTokenKey, token)
}

// ctxAdminToken returns the verified admin session token, if any.
func ctxAdminToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(adminTokenKey).(string)
	return token, ok && token != ""
}

// ctxIsAdmin reports whether the request passed admin session verification.
func ctxIsAdmin(ctx context.Context) bool {
	_, ok := ctxAdminToken(ctx)
	return ok
}

// clientIP extracts the originating client address, honoring the proxy
// headers the frontend's hosting platform sets.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
