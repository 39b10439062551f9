package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/RoyceAzure/lab/bookstore/internal/api"
	"github.com/RoyceAzure/lab/bookstore/internal/api/errcode"
	"github.com/rs/zerolog"
)

func RecoverMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Str("request_id", GetRequestID(r)).
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Interface("panic", err).
						Bytes("stack", debug.Stack()).
						Msg("request panicked")

					api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
