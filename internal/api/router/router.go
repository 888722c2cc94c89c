package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"padron-agremiados/config"
	"padron-agremiados/internal/api/handler"
	"padron-agremiados/internal/api/middleware"
	"padron-agremiados/pkg/metrics"
)

// Pages is the server-rendered UI mounted next to the API.
type Pages interface {
	Register(r *gin.Engine)
}

// Deps collaborators the router wires in. Limiter and Pages may be nil.
type Deps struct {
	Handler *handler.Handler
	Limiter middleware.RateLimiter
	Metrics *metrics.Metrics
	Pages   Pages
	Logger  *zap.Logger
}

// Setup builds the gin engine
func Setup(cfg *config.Config, d Deps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		d.Logger.Error("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── operational ──
	r.GET("/health", d.Handler.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))

	limit := middleware.RateLimit(d.Limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, d.Logger)

	// ── API ──
	api := r.Group("/api")
	{
		agremiados := api.Group("/agremiados")
		{
			agremiados.GET("", d.Handler.Agremiado.ListAgremiados)
			agremiados.GET("/search", d.Handler.Agremiado.SearchAgremiados)
			agremiados.GET("/:id", d.Handler.Agremiado.GetAgremiado)
			agremiados.POST("", limit, d.Handler.Agremiado.CreateAgremiado)
			agremiados.PUT("/:id", limit, d.Handler.Agremiado.UpdateAgremiado)
			agremiados.DELETE("/:id", limit, d.Handler.Agremiado.DeleteAgremiado)
		}
	}

	// ── pages ──
	if d.Pages != nil {
		d.Pages.Register(r)
	}

	return r
}
