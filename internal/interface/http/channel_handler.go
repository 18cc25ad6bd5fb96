package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/pkg/response"
)

type ChannelHandler struct {
	Svc    *application.ChannelService
	Logger *logrus.Logger
}

func NewChannelHandler(svc *application.ChannelService, logger *logrus.Logger) *ChannelHandler {
	return &ChannelHandler{Svc: svc, Logger: logger}
}

func (h *ChannelHandler) one(c *gin.Context, status int, msg string, ch *application.ChannelResponse, err error) {
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, status, ch, msg, nil)
}

func (h *ChannelHandler) many(c *gin.Context, cs []application.ChannelResponse, err error) {
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cs, "channels", map[string]any{"count": len(cs)})
}

func (h *ChannelHandler) Create(c *gin.Context) {
	var req application.ChannelInput
	if !bindJSON(c, &req) {
		return
	}
	ch, err := h.Svc.Create(c.Request.Context(), req)
	h.one(c, http.StatusCreated, "channel created", ch, err)
}

func (h *ChannelHandler) Get(c *gin.Context) {
	ch, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	h.one(c, http.StatusOK, "channel", ch, err)
}

func (h *ChannelHandler) List(c *gin.Context) {
	cs, err := h.Svc.List(c.Request.Context())
	h.many(c, cs, err)
}

func (h *ChannelHandler) ListByType(c *gin.Context) {
	cs, err := h.Svc.ListByType(c.Request.Context(), c.Param("type"))
	h.many(c, cs, err)
}

func (h *ChannelHandler) ListActive(c *gin.Context) {
	cs, err := h.Svc.ListActive(c.Request.Context())
	h.many(c, cs, err)
}

func (h *ChannelHandler) Update(c *gin.Context) {
	var req application.ChannelInput
	if !bindJSON(c, &req) {
		return
	}
	ch, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req)
	h.one(c, http.StatusOK, "channel updated", ch, err)
}

func (h *ChannelHandler) Activate(c *gin.Context) {
	ch, err := h.Svc.Activate(c.Request.Context(), c.Param("id"))
	h.one(c, http.StatusOK, "channel activated", ch, err)
}

func (h *ChannelHandler) Deactivate(c *gin.Context) {
	ch, err := h.Svc.Deactivate(c.Request.Context(), c.Param("id"))
	h.one(c, http.StatusOK, "channel deactivated", ch, err)
}

func (h *ChannelHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "channel deleted", nil)
}
