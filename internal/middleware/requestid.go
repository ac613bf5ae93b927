package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type requestIDContextKey struct{}

// maxRequestIDLength bounds client supplied ids before they reach the logs.
const maxRequestIDLength = 64

// RequestID propagates the caller's X-Request-ID, or assigns a fresh UUID,
// and echoes it on the response. Ids that are too long or contain
// non-printable characters are replaced.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDContextKey{}, rid)
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return v
	}
	return ""
}

func validRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if c := rid[i]; c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}
