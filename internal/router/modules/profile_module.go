package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/baltotest/freight-api/internal/interface/http"
)

type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Guard   Guard
}

func NewProfileModule(h *handlers.ProfileHandler, guard Guard) *ProfileModule {
	return &ProfileModule{Handler: h, Guard: guard}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	g := m.Guard.Group(rg, "/profile")
	g.GET("", m.Handler.Get)
	g.PUT("", m.Handler.Update)
}
