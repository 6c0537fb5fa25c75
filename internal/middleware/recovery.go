package middleware

import (
	"net/http"
	"runtime/debug"

	"billing-cache-api/pkg/apierror"

	log "github.com/sirupsen/logrus"
)

// Recovery is a middleware that recovers from panics.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.WithField("request_id", GetRequestID(r.Context())).
					Errorf("PANIC: %v\n%s", err, debug.Stack())

				writeError(w, apierror.InternalError("internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
