package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const ctxKeySession ctxKey = iota

// sessionMiddleware resolves {sessionID} against the registry and puts the
// live session into the request context.
func sessionMiddleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "sessionID")
			if id == "" {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}

			sess, ok := reg.Get(id)
			if !ok {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) *gameSession {
	return r.Context().Value(ctxKeySession).(*gameSession)
}
