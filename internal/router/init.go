package router

import (
	"expvar"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/baltotest/freight-api/internal/container"
	handlers "github.com/baltotest/freight-api/internal/interface/http"
	"github.com/baltotest/freight-api/internal/interface/middleware"
	"github.com/baltotest/freight-api/internal/router/modules"
)

var requestsByStatus = expvar.NewMap("http_requests_by_status")

// New builds the engine with global middleware and every feature module.
func New(c *container.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.AppName))
	}
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.Use(countStatus)

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

func countStatus(c *gin.Context) {
	c.Next()
	requestsByStatus.Add(strconv.Itoa(c.Writer.Status()), 1)
}

// InitModules wires handlers from the container into route modules.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	guard := modules.Guard{
		Tokens:   c.Tokens,
		Sessions: c.Sessions,
		Redis:    c.Redis,
		Limit:    cfg.UserRateLimit,
		Window:   cfg.UserRateWindow,
		Exempt:   []string{"/api/auth/logout"},
	}

	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(c.Auth, c.Events, c.Cookies, c.Logger),
		guard, c.Redis, cfg.AuthRateLimit, cfg.AuthRateWindow,
	))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(c.Profile, c.Logger), guard))
	r.Add(modules.NewLoadModule(handlers.NewLoadHandler(c.Loads, c.Logger), guard))
	r.Add(modules.NewMessageModule(handlers.NewMessageHandler(c.Messages, c.Logger), guard))
	r.Add(modules.NewChannelModule(handlers.NewChannelHandler(c.Channels, c.Logger), guard))
	r.Add(modules.NewAnalyticsModule(handlers.NewActivityHandler(c.Activity, c.Logger), guard))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
