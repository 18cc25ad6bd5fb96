package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/pkg/response"
)

type ActivityHandler struct {
	Svc    *application.ActivityService
	Logger *logrus.Logger
}

func NewActivityHandler(svc *application.ActivityService, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{Svc: svc, Logger: logger}
}

// Report GET /api/analytics/activity?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *ActivityHandler) Report(c *gin.Context) {
	rep, err := h.Svc.Report(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, rep, "user activity", map[string]any{"count": len(rep.Users)})
}
