package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/yalshehri/tripsplit/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ActorIDKey is the context key for the acting participant ID
	ActorIDKey ContextKey = "actor_id"
)

// ActorMiddleware extracts the acting participant from the X-Participant-ID
// header. Authentication happens upstream (session/gateway layer); by the time
// a request reaches this service the header is already trusted.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorIDStr := r.Header.Get("X-Participant-ID")
		if actorIDStr == "" {
			response.Unauthorized(w, "X-Participant-ID header required")
			return
		}

		actorID, err := strconv.ParseInt(actorIDStr, 10, 64)
		if err != nil || actorID <= 0 {
			response.Unauthorized(w, "Invalid participant ID")
			return
		}

		ctx := context.WithValue(r.Context(), ActorIDKey, actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorID extracts the acting participant ID from the request context
func GetActorID(ctx context.Context) (int64, bool) {
	actorID, ok := ctx.Value(ActorIDKey).(int64)
	return actorID, ok
}
