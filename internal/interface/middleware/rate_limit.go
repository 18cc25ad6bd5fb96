package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/baltotest/freight-api/pkg/response"
)

const rateLimitPrefix = "rl:"

// KeyFunc names the bucket a request is counted in.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that skip the limit.
type AllowFunc func(c *gin.Context) bool

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return rateLimitPrefix + "ip:" + ipFromCtx(c) }
}

// KeyByIPAndPath counts each route pattern separately per client.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return rateLimitPrefix + "path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID falls back to the client IP before authentication.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return rateLimitPrefix + "user:" + uid
		}
		return rateLimitPrefix + "user:anon:ip:" + ipFromCtx(c)
	}
}

// windowScript increments the window counter, arms its expiry on the first
// hit and returns {count, pttl}.
var windowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit allows max requests per key in fixed windows kept in Redis.
// Without Redis, or with a non-positive limit, it passes everything through;
// Redis errors fail open.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(max)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}
		res, err := windowScript.Run(c.Request.Context(), rdb, []string{keyFn(c)}, window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			c.Next()
			return
		}
		count, reset := int(res[0]), resetSeconds(res[1])

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining(max, count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))
		if count > max {
			c.Header("Retry-After", strconv.Itoa(reset))
			response.Error[any](c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}

// resetSeconds rounds a PTTL in milliseconds up to whole seconds.
func resetSeconds(pttl int64) int {
	if pttl <= 0 {
		return 0
	}
	return int((pttl + 999) / 1000)
}
