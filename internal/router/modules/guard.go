package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/baltotest/freight-api/internal/interface/middleware"
)

// Guard builds the middleware chain for protected routes: token and session
// check, then a per-user rate limit that skips the Exempt route patterns.
type Guard struct {
	Tokens   middleware.TokenParser
	Sessions middleware.SessionChecker
	Redis    *redis.Client
	Limit    int
	Window   time.Duration
	Exempt   []string
}

// Group returns a child of rg under path that requires authentication.
func (g Guard) Group(rg *gin.RouterGroup, path string) *gin.RouterGroup {
	grp := rg.Group(path)
	grp.Use(
		middleware.Auth(g.Tokens, g.Sessions),
		middleware.RateLimit(g.Redis, g.Limit, g.Window, middleware.KeyByUserID(), middleware.AllowPaths(g.Exempt...)),
	)
	return grp
}
