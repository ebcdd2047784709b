package api

import (
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vincitamore/tui-blog-backend/database"
	"github.com/vincitamore/tui-blog-backend/errs"
)

type authMiddleware struct {
	responder Responder
	logger    zerolog.Logger
	sessions  *database.SessionRepo
	ttl       time.Duration
	now       func() time.Time
}

func newAuthMiddleware(sessions *database.SessionRepo, ttl time.Duration) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		logger:    logger,
		sessions:  sessions,
		ttl:       ttl,
		now:       time.Now,
	}
}

// checkSession resolves the Authorization header to a live admin session
// token. Expired sessions are swept on access, best effort.
func (m authMiddleware) checkSession(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errs.NewMissingTokenError()
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", errs.NewMissingTokenError()
	}

	session, err := m.sessions.Find(r.Context(), token)
	if err != nil {
		m.logger.Warn().Err(err).Msg("session store unreadable, refusing admin access")
		return "", errs.NewInvalidTokenError()
	}
	if session == nil {
		return "", errs.NewInvalidTokenError()
	}
	if session.Expired(m.now(), m.ttl) {
		if err := m.sessions.Remove(r.Context(), token); err != nil {
			m.logger.Warn().Err(err).Msg("failed to sweep expired session")
		}
		return "", errs.NewExpiredTokenError()
	}
	return token, nil
}

// requireAdmin rejects requests without a live admin session.
func (m authMiddleware) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.checkSession(r)
		if err != nil {
			m.responder.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithAdminToken(r.Context(), token)))
	})
}

// optionalAdmin marks the request as admin when a live session is presented
// but lets everything through. Comment edits accept either an ownership
// token in the body or an admin session.
func (m authMiddleware) optionalAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, err := m.checkSession(r); err == nil {
			r = r.WithContext(ctxWithAdminToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on status codes
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		duration := time.Since(start)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
