package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const AccessTokenCookie = "access_token"

// CookieManager writes the HttpOnly access-token cookie.
type CookieManager struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func NewCookie(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure, SameSite: http.SameSiteLaxMode}
}

// SetAccess stores token until exp.
func (m *CookieManager) SetAccess(c *gin.Context, token string, exp time.Time) {
	m.write(c, token, maxAgeUntil(exp, time.Now()))
}

func (m *CookieManager) Clear(c *gin.Context) {
	m.write(c, "", -1)
}

func (m *CookieManager) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(AccessTokenCookie, value, maxAge, "/", m.Domain, m.Secure, true)
}

func maxAgeUntil(exp, now time.Time) int {
	if sec := int(exp.Sub(now).Seconds()); sec > 0 {
		return sec
	}
	return 0
}
