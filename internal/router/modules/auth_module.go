package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/baltotest/freight-api/internal/interface/http"
	"github.com/baltotest/freight-api/internal/interface/middleware"
)

// AuthModule serves signup and login publicly (per-IP limited) and logout
// behind the guard.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   Guard
	Redis   *redis.Client
	Limit   int
	Window  time.Duration
}

func NewAuthModule(h *handlers.AuthHandler, guard Guard, rdb *redis.Client, limit int, window time.Duration) *AuthModule {
	return &AuthModule{Handler: h, Guard: guard, Redis: rdb, Limit: limit, Window: window}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Redis, m.Limit, m.Window, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signup", limiter, m.Handler.Signup)
	rg.POST("/auth/login", limiter, m.Handler.Login)

	auth := m.Guard.Group(rg, "/auth")
	auth.POST("/logout", m.Handler.Logout)
}
