package logger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Middleware stores a request-scoped logger in the request context and logs one line per
// completed request. It expects chi's RequestID middleware to run first.
func Middleware(base *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			l := base.With(
				RequestID(middleware.GetReqID(r.Context())),
				Method(r.Method),
				Path(r.URL.Path),
			)
			next.ServeHTTP(ww, r.WithContext(ToContext(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				Status(status),
				Bytes(ww.BytesWritten()),
				Duration(time.Since(start)),
				ClientIP(r.RemoteAddr),
			}
			switch {
			case status >= http.StatusInternalServerError:
				l.Error("request completed", fields...)
			case status >= http.StatusBadRequest:
				l.Warn("request completed", fields...)
			default:
				l.Info("request completed", fields...)
			}
		})
	}
}
