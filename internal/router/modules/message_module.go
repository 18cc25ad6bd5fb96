package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/baltotest/freight-api/internal/interface/http"
)

type MessageModule struct {
	Handler *handlers.MessageHandler
	Guard   Guard
}

func NewMessageModule(h *handlers.MessageHandler, guard Guard) *MessageModule {
	return &MessageModule{Handler: h, Guard: guard}
}

func (m *MessageModule) Register(rg *gin.RouterGroup) {
	g := m.Guard.Group(rg, "/messages")
	g.POST("", m.Handler.Send)
	g.POST("/attachments", m.Handler.UploadAttachment)
	g.GET("/load/:id", m.Handler.ListByLoad)
	g.GET("/sender/:id", m.Handler.ListBySender)
	g.GET("/recipient/:id", m.Handler.ListByRecipient)
	g.GET("/channel/:id", m.Handler.ListByChannel)
	g.GET("/unread/recipient/:id", m.Handler.ListUnreadByRecipient)
	g.GET("/unread/load/:id", m.Handler.ListUnreadByLoad)
	g.GET("/unread/count/:id", m.Handler.CountUnread)
	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id/read", m.Handler.MarkAsRead)
	g.DELETE("/:id", m.Handler.Delete)
}
