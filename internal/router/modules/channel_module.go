package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/baltotest/freight-api/internal/interface/http"
)

type ChannelModule struct {
	Handler *handlers.ChannelHandler
	Guard   Guard
}

func NewChannelModule(h *handlers.ChannelHandler, guard Guard) *ChannelModule {
	return &ChannelModule{Handler: h, Guard: guard}
}

func (m *ChannelModule) Register(rg *gin.RouterGroup) {
	g := m.Guard.Group(rg, "/channels")
	g.POST("", m.Handler.Create)
	g.GET("", m.Handler.List)
	g.GET("/active", m.Handler.ListActive)
	g.GET("/type/:type", m.Handler.ListByType)
	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id", m.Handler.Update)
	g.PUT("/:id/activate", m.Handler.Activate)
	g.PUT("/:id/deactivate", m.Handler.Deactivate)
	g.DELETE("/:id", m.Handler.Delete)
}
