package routes

import (
	"context"

	"questionbank/config"
	"questionbank/middleware"
	"questionbank/monitoring"
	"questionbank/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// NewRouter builds the engine with the middleware chain shared by every
// route. tp may be nil when tracing is off. Background work started by the
// middleware stops when ctx is done.
func NewRouter(ctx context.Context, cfg *config.Config, log *zap.Logger, tp trace.TracerProvider) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(monitoring.MetricsMiddleware())
	if tp != nil {
		router.Use(tracing.GinMiddleware(tp))
	}
	router.Use(middleware.CORS())
	if cfg.RateLimitRPM > 0 {
		router.Use(middleware.RateLimiter(ctx, cfg.RateLimitRPM))
	}
	router.Use(middleware.BodyLimit(cfg.BodyLimitBytes))

	return router
}
