package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/checklist/internal/core"
	"github.com/JonMunkholm/checklist/internal/logging"
)

type contextKey string

const sessionKey contextKey = "session"

// withSession resolves the caller's session from its cookie, creating one
// when the cookie is missing or stale, and stores it in the request
// context along with the client IP.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
			id = c.Value
		}

		sess, created := s.service.Session(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     s.cfg.Session.CookieName,
				Value:    sess.ID(),
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.Session.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		ctx = logging.WithSessionID(ctx, sess.ID())
		ctx = WithRequestMetadata(ctx, r)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session attached by withSession.
func sessionFrom(ctx context.Context) *core.Session {
	sess, _ := ctx.Value(sessionKey).(*core.Session)
	return sess
}

// WithRequestMetadata adds the client IP to ctx for evidence metadata.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClientIP(ctx, clientIP(r))
}

// clientIP strips the port from RemoteAddr, which TrustedRealIP has
// already rewritten for trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
