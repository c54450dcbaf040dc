// Package routers assembles the gin engine.
package routers

import (
	"time"

	"github.com/Vampire-js/techfiesta/internal/app"
	"github.com/Vampire-js/techfiesta/internal/middleware"
	"github.com/Vampire-js/techfiesta/internal/routers/api_router"
	"github.com/Vampire-js/techfiesta/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/user",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
)

// NewRouter builds the engine with the full middleware chain and every
// API route.
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()

	r := gin.New()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := middleware.NewMetrics(registry)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo())
		api.Use(middleware.TraceMiddlewareWithConfig(middleware.TracerConfig{
			Enabled: cfg.Tracer.Enabled,
			Header:  cfg.Tracer.Header,
		}))
		api.Use(metrics.Handler())
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		userHandler := api_router.NewUserHandler(appContainer)
		documentHandler := api_router.NewDocumentHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		api.POST("/user/register", userHandler.Register)
		api.POST("/user/login", userHandler.Login)
		api.POST("/user/logout", userHandler.Logout)
		api.GET("/version", versionHandler.ServerVersion)

		auth := middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey, cfg.Security.AuthCookieName)

		api.Use(auth).GET("/user/check", userHandler.Check)
		api.Use(auth).GET("/user/info", userHandler.UserInfo)
		api.Use(auth).POST("/user/change_password", userHandler.UserChangePassword)

		api.Use(auth).GET("/documents", documentHandler.List)
		api.Use(auth).GET("/document", documentHandler.Get)
		api.Use(auth).POST("/document", documentHandler.Create)
		api.Use(auth).POST("/document/content", documentHandler.UpdateContent)
		api.Use(auth).POST("/document/rename", documentHandler.Rename)
		api.Use(auth).POST("/document/move", documentHandler.Move)
		api.Use(auth).DELETE("/document", documentHandler.Delete)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
