package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "gestion-activos-backend/docs"
	"gestion-activos-backend/internal/asset_mgmt/areas"
	"gestion-activos-backend/internal/asset_mgmt/assets"
	"gestion-activos-backend/internal/asset_mgmt/assettypes"
	"gestion-activos-backend/internal/asset_mgmt/ledger"
	"gestion-activos-backend/internal/platform/auth"
	"gestion-activos-backend/internal/platform/config"
	"gestion-activos-backend/internal/platform/logger"
)

type services struct {
	tokens *auth.Tokens
	auth   *auth.Service
	types  *assettypes.Service
	assets *assets.Service
	ledger *ledger.Service
	areas  *areas.Service
}

func newServices(conn *sql.DB, cfg *config.Config, loc *time.Location, log *zap.Logger) *services {
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	typeStore := assettypes.NewStore(conn)
	l := ledger.New(ledger.NewULIDGen())

	return &services{
		tokens: tokens,
		auth:   auth.NewService(auth.NewStore(conn), tokens, log.Named("auth")),
		types:  assettypes.NewService(typeStore, log.Named("tipos")),
		assets: assets.NewService(assets.NewStore(conn, typeStore, l), log.Named("activos"), assets.WithLocation(loc)),
		ledger: ledger.NewService(conn, l),
		areas:  areas.NewService(areas.NewStore(conn)),
	}
}

func newRouter(cfg *config.Config, log *zap.Logger, svc *services, ping func() error) *gin.Engine {
	r := gin.New()
	r.Use(logger.RequestID(), logger.GinMiddleware(log), logger.Recovery(log))
	_ = r.SetTrustedProxies(nil)

	if len(cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", logger.HeaderRequestID},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if err := ping(); err != nil {
			logger.FromGin(c).Warn("health check failed", zap.Error(err))
			c.String(http.StatusServiceUnavailable, "db unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/api-docs", func(c *gin.Context) { c.Redirect(http.StatusMovedPermanently, "/api-docs/index.html") })
	r.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	auth.RegisterLoginRoute(api, svc.auth)

	// any authenticated role
	authed := api.Group("", auth.RequireAuth(svc.tokens, svc.auth))
	assettypes.RegisterReadRoutes(authed, svc.types)
	assets.RegisterReadRoutes(authed, svc.assets)
	ledger.RegisterRoutes(authed, svc.ledger)
	areas.RegisterRoutes(authed, svc.areas)
	auth.RegisterPasswordRoute(authed, svc.auth)

	writers := authed.Group("", auth.RequireRole(auth.Writers...))
	assettypes.RegisterWriteRoutes(writers, svc.types)
	assets.RegisterWriteRoutes(writers, svc.assets)

	admins := authed.Group("", auth.RequireRole(auth.RoleAdmin))
	assettypes.RegisterAdminRoutes(admins, svc.types)
	assets.RegisterAdminRoutes(admins, svc.assets)
	auth.RegisterUserRoutes(admins, svc.auth)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ruta no encontrada", "code": "NOT_FOUND"})
	})
	return r
}
