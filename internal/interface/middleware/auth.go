package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/baltotest/freight-api/pkg/helpers"
	"github.com/baltotest/freight-api/pkg/response"
)

const CtxUserIDKey = "userID"

// TokenParser resolves a bearer token to the user id it was issued for.
type TokenParser interface {
	ExtractUserID(token string) (string, error)
}

// SessionChecker reports whether the user still has a live session.
type SessionChecker interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// bearerToken prefers the Authorization header over the access_token cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return tok
	}
	return ""
}

// Auth validates the access token and, when sessions is non-nil, requires
// a live session in Redis. It sets userID in the Gin context on success.
func Auth(tokens TokenParser, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token", nil)
			return
		}
		userID, err := tokens.ExtractUserID(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token", nil)
			return
		}
		if sessions != nil {
			ok, err := sessions.Exists(c.Request.Context(), userID)
			if err != nil || !ok {
				response.Error[any](c, http.StatusUnauthorized, "UNAUTHORIZED", "session not found", nil)
				return
			}
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
