package middleware

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// principalHolder 讓外層 logger 拿得到內層 AuthMiddleware 才解析出的身份
// context value 只往內傳，往外靠這個共用指標
type principalHolder struct {
	principal *Principal
}

const principalHolderKey contextKey = "principal_holder"

type StatusRecoder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecoder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecoder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// 記錄request 請求
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recoder := &StatusRecoder{
				ResponseWriter: w,
			}
			holder := &principalHolder{}
			r = r.WithContext(context.WithValue(r.Context(), principalHolderKey, holder))

			start := time.Now()
			next.ServeHTTP(recoder, r)

			if logger == nil {
				temp := zerolog.New(os.Stdout).With().Timestamp().Logger()
				logger = &temp
			}

			userID := 0
			if holder.principal != nil {
				userID = holder.principal.UserID
			}

			logger.Info().
				Str("request_id", GetRequestID(r)).
				Int("user_id", userID).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", recoder.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request completed")
		})
	}
}
