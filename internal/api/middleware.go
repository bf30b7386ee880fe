// internal/api/middleware.go
// Middleware chain, outermost first: CORS, rate-limit gate, tenant
// context, protected handlers. The rate limiter runs before any token
// verification so unauthenticated floods are damped cheaply.
package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cyberops/isora/internal/ratelimit"
	"github.com/cyberops/isora/internal/tenant"
)

// clientIP prefers the leftmost X-Forwarded-For hop, then X-Real-IP,
// then the direct peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		if first != "" {
			return first
		}
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

// rateLimitMiddleware is the admission gate. It decodes (not verifies)
// the token to learn the claimed tenant, consults the limiter and
// attaches the rate-limit headers to every response.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := ratelimit.Request{
			Path: r.URL.Path,
			IP:   clientIP(r),
		}
		if raw, ok := bearerToken(r); ok {
			if claims, err := decodeClaims(raw); err == nil {
				req.TenantID = claims.TenantID
				req.IsSuperAdmin = claims.IsSuperAdmin
			}
		}

		decision := s.limiter.Check(r.Context(), req)
		if s.metrics != nil {
			s.metrics.ObserveAdmission(admissionOutcome(decision))
		}
		if !decision.Allowed {
			ratelimit.WriteRejection(w, decision)
			return
		}
		ratelimit.SetHeaders(w, decision)
		next.ServeHTTP(w, r)
	})
}

func admissionOutcome(d ratelimit.Decision) string {
	switch {
	case !d.Allowed:
		return "rejected"
	case d.Bypassed:
		return "bypassed"
	case d.FailedOpen:
		return "failed_open"
	default:
		return "allowed"
	}
}

// tenantMiddleware decodes the token and binds the tenant context for
// the lifetime of the request. An X-Tenant-ID header switches tenants
// when the identity is allowed to (super admin, or member tenant).
func (s *Server) tenantMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := decodeClaims(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		tc := tenantContext(claims)
		if override := r.Header.Get("X-Tenant-ID"); override != "" {
			switched, err := tc.WithOverride(override)
			if err != nil {
				writeError(w, http.StatusForbidden, "tenant_forbidden",
					"Not a member of the requested tenant")
				return
			}
			tc = switched
		}

		next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), tc)))
	})
}

// requireAuth re-validates the token (signature, expiry, access type)
// before the handler runs. Decode-only identity from the outer chain is
// never trusted for protected work.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
			return
		}
		if _, err := verifyClaims(raw, s.jwtSecret); err != nil {
			switch err {
			case ErrTokenExpired:
				writeError(w, http.StatusUnauthorized, "token_expired", "Token expired")
			default:
				writeError(w, http.StatusUnauthorized, "invalid_token", "Invalid token")
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole enforces a minimum organization role after requireAuth
func (s *Server) requireRole(role tenant.OrgRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, err := tenant.FromContext(r.Context())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "tenant_context_missing", "Tenant context missing")
				return
			}
			if !tc.HasRole(role) {
				writeError(w, http.StatusForbidden, "insufficient_role", "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// observeMiddleware records request counts and latency
func (s *Server) observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.metrics.ObserveRequest(r.Method, r.URL.Path, ww.Status(), time.Since(start).Seconds())
	})
}
