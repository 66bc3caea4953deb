package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/LeoXLiu-DS/timesheet-logging/pkg/logger"
)

// TraceID attaches a trace id to every request. Clients may supply their
// own via X-Trace-ID; otherwise one is generated. The id rides the request
// context so every log line downstream carries it, and is echoed back in
// the response for client-side correlation.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
