package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pricescout/logger"

	"github.com/didip/tollbooth/v7"
)

type contextKey string

// UserEmailKey holds the authenticated user's email in the request context.
const UserEmailKey contextKey = "user_email"

// TokenVerifier verifies a bearer token and returns its subject.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// LoggingMiddleware logs API requests with method, path, status and timing.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if r.URL.Path == "/health" {
			return
		}
		logger.Log.Infof("%s %s -> %d (%v)", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start))
	})
}

// RateLimitMiddleware limits requests per client IP.
func RateLimitMiddleware(requestsPerSecond float64) func(http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(requestsPerSecond, nil)
	lmt.SetIPLookups([]string{"RemoteAddr"})
	lmt.SetMessage(`{"error":"too many requests"}`)
	lmt.SetMessageContentType("application/json")

	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}

// AuthMiddleware requires a valid bearer token and stores the user's email
// in the request context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}

			email, err := verifier.VerifyToken(token)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserEmail returns the authenticated email from the request context.
func UserEmail(r *http.Request) string {
	email, _ := r.Context().Value(UserEmailKey).(string)
	return email
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	// the mobile app passes the token as a query parameter on /auth/me
	return r.URL.Query().Get("token")
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
