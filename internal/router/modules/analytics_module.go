package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/baltotest/freight-api/internal/interface/http"
)

type AnalyticsModule struct {
	Handler *handlers.ActivityHandler
	Guard   Guard
}

func NewAnalyticsModule(h *handlers.ActivityHandler, guard Guard) *AnalyticsModule {
	return &AnalyticsModule{Handler: h, Guard: guard}
}

func (m *AnalyticsModule) Register(rg *gin.RouterGroup) {
	g := m.Guard.Group(rg, "/analytics")
	g.GET("/activity", m.Handler.Report)
}
