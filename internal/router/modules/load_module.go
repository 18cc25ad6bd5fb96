package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/baltotest/freight-api/internal/interface/http"
)

type LoadModule struct {
	Handler *handlers.LoadHandler
	Guard   Guard
}

func NewLoadModule(h *handlers.LoadHandler, guard Guard) *LoadModule {
	return &LoadModule{Handler: h, Guard: guard}
}

func (m *LoadModule) Register(rg *gin.RouterGroup) {
	g := m.Guard.Group(rg, "/loads")
	g.POST("", m.Handler.Create)
	g.GET("", m.Handler.List)
	g.GET("/search", m.Handler.Search)
	g.GET("/broker/:id", m.Handler.ListByBroker)
	g.GET("/customer/:id", m.Handler.ListByCustomer)
	g.GET("/carrier/:id", m.Handler.ListByCarrier)
	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id", m.Handler.Update)
	g.PUT("/:id/status", m.Handler.UpdateStatus)
	g.PUT("/:id/eta", m.Handler.UpdateETA)
	g.PUT("/:id/carrier/:carrierId", m.Handler.AssignCarrier)
	g.DELETE("/:id", m.Handler.Delete)
}
