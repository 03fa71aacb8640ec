package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"studyhub/internal/auth"
)

type contextKey string

// accountKey carries the authenticated account id through the request.
const accountKey contextKey = "account_id"

// AccountID returns the authenticated account id, or "" for anonymous
// requests.
func AccountID(ctx context.Context) string {
	id, _ := ctx.Value(accountKey).(string)
	return id
}

// Logger is a structured access-log middleware.
func Logger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start).String(),
				"request_id": chimiddleware.GetReqID(r.Context()),
			}).Info("request")
		})
	}
}

// CORS is a permissive CORS middleware suitable for a browser frontend on a
// different origin.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticator requires a valid bearer token and stores the account id in
// the request context.
func Authenticator(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, ok := bearerAccount(r, tokens)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing or invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), accountKey, accountID)))
		})
	}
}

// OptionalAuth stores the account id when a valid token is present and
// passes anonymous requests through untouched.
func OptionalAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if accountID, ok := bearerAccount(r, tokens); ok {
				r = r.WithContext(context.WithValue(r.Context(), accountKey, accountID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerAccount(r *http.Request, tokens *auth.TokenManager) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	accountID, err := tokens.Verify(token)
	if err != nil {
		return "", false
	}
	return accountID, true
}
