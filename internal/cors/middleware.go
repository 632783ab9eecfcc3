package cors

import (
	"net/http"

	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Middleware struct {
	logger  *zap.Logger
	handler func(http.Handler) http.Handler
}

func NewMiddleware(logger *zap.Logger, allowOrigins []string) *Middleware {
	logger.Info("CORS allowed origins", zap.Strings("origins", allowOrigins))

	return &Middleware{
		logger: logger,
		handler: cors.Handler(cors.Options{
			AllowedOrigins:   allowOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Traceparent", "Tracestate"},
			ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	}
}

func (m *Middleware) HandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return m.handler(next).ServeHTTP
}
