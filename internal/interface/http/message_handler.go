package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/pkg/response"
)

// MaxAttachmentSize bounds a single uploaded attachment.
const MaxAttachmentSize = 10 << 20

type MessageHandler struct {
	Svc    *application.MessageService
	Logger *logrus.Logger
}

func NewMessageHandler(svc *application.MessageService, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{Svc: svc, Logger: logger}
}

func (h *MessageHandler) one(c *gin.Context, status int, msg string, m *application.MessageResponse, err error) {
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, status, m, msg, nil)
}

func (h *MessageHandler) many(c *gin.Context, ms []application.MessageResponse, err error) {
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ms, "messages", map[string]any{"count": len(ms)})
}

// Send POST /api/messages. sender_id defaults to the caller.
func (h *MessageHandler) Send(c *gin.Context) {
	var req application.SendMessageInput
	if !bindJSON(c, &req) {
		return
	}
	if req.SenderID == "" {
		req.SenderID = c.GetString("userID")
	}
	m, err := h.Svc.Send(c.Request.Context(), req)
	h.one(c, http.StatusCreated, "message sent", m, err)
}

func (h *MessageHandler) Get(c *gin.Context) {
	m, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	h.one(c, http.StatusOK, "message", m, err)
}

func (h *MessageHandler) ListByLoad(c *gin.Context) {
	ms, err := h.Svc.ListByLoad(c.Request.Context(), c.Param("id"))
	h.many(c, ms, err)
}

func (h *MessageHandler) ListBySender(c *gin.Context) {
	ms, err := h.Svc.ListBySender(c.Request.Context(), c.Param("id"))
	h.many(c, ms, err)
}

func (h *MessageHandler) ListByRecipient(c *gin.Context) {
	ms, err := h.Svc.ListByRecipient(c.Request.Context(), c.Param("id"))
	h.many(c, ms, err)
}

func (h *MessageHandler) ListByChannel(c *gin.Context) {
	ms, err := h.Svc.ListByChannel(c.Request.Context(), c.Param("id"))
	h.many(c, ms, err)
}

func (h *MessageHandler) ListUnreadByRecipient(c *gin.Context) {
	ms, err := h.Svc.ListUnreadByRecipient(c.Request.Context(), c.Param("id"))
	h.many(c, ms, err)
}

func (h *MessageHandler) ListUnreadByLoad(c *gin.Context) {
	ms, err := h.Svc.ListUnreadByLoad(c.Request.Context(), c.Param("id"))
	h.many(c, ms, err)
}

// CountUnread GET /api/messages/unread/count/:id
func (h *MessageHandler) CountUnread(c *gin.Context) {
	n, err := h.Svc.CountUnread(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": n}, "unread count", nil)
}

// MarkAsRead PUT /api/messages/:id/read
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	m, err := h.Svc.MarkAsRead(c.Request.Context(), c.Param("id"))
	h.one(c, http.StatusOK, "message marked as read", m, err)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "message deleted", nil)
}

// UploadAttachment POST /api/messages/attachments (multipart, field "file")
func (h *MessageHandler) UploadAttachment(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, CodeValidation, "file is required", nil)
		return
	}
	if fh.Size > MaxAttachmentSize {
		response.Error[any](c, http.StatusBadRequest, CodeValidation, "file too large", gin.H{"max_bytes": MaxAttachmentSize})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := h.Svc.UploadAttachment(c.Request.Context(), c.GetString("userID"), f, fh.Filename, contentType)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "attachment uploaded", nil)
}
