package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/carbonview/dashboard/internal/api/http"
	"github.com/carbonview/dashboard/internal/api/http/middleware"
	dashhttp "github.com/carbonview/dashboard/internal/dashboard/http"
	"github.com/carbonview/dashboard/internal/dashboard/service"
	"github.com/carbonview/dashboard/internal/session"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	MaxUploadBytes int64

	Service *service.Service
	// DB is nil when no database is configured.
	DB       httpapi.Pinger
	Verifier session.TokenVerifier
	Logger   *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))

	corsCfg := cors.DefaultConfig()
	if len(dep.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = dep.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AddAllowHeaders("Authorization", session.HeaderUserID, session.HeaderEmail, middleware.HeaderRequestID)
	corsCfg.AddExposeHeaders(middleware.HeaderRequestID)
	r.Use(cors.New(corsCfg))

	var cachePinger httpapi.Pinger
	if dep.Service.CacheEnabled() {
		cachePinger = dep.Service
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, cachePinger)
	healthHandler.RegisterRoutes(r)
	httpapi.NewMetricsHandler(dep.Service.CacheStats).RegisterRoutes(r)

	h := dashhttp.New(dep.Service, dep.MaxUploadBytes, dep.Logger)

	authed := r.Group("")
	authed.Use(session.Middleware(dep.Verifier))
	h.RegisterPages(authed)
	h.Register(authed.Group("/api/v1"))

	return r
}
