package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/linkdrift/pkg/errors"
	"github.com/matzehuels/linkdrift/pkg/observability"
	"github.com/matzehuels/linkdrift/pkg/session"
)

type ctxKey int

const sessionKey ctxKey = 0

// sessionFrom returns the session attached by withSession.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// logRequests logs every response and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// limitBody caps request bodies at the configured size.
func (s *Server) limitBody(next http.Handler) http.Handler {
	limit := s.cfg.Server.MaxBodyBytes
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}

// withSession resolves the session header, starting a new session when it
// is absent or expired, and echoes the id back.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var sess *session.Session
		if raw := r.Header.Get(SessionHeader); raw != "" {
			id, err := session.ParseID(raw)
			if err != nil {
				s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s header", SessionHeader))
				return
			}
			sess, err = s.sessions.Get(ctx, id)
			if err != nil {
				s.writeError(w, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "load session"))
				return
			}
		}
		if sess == nil {
			sess = session.New(s.cfg.Store.TTL)
			if err := s.sessions.Set(ctx, sess); err != nil {
				s.writeError(w, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "save session"))
				return
			}
			s.logger.Debug("started session", "id", sess.ID)
		}

		w.Header().Set(SessionHeader, sess.ID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey, sess)))
	})
}
