package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/pkg/response"
)

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

// Get GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

// Update PUT /api/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	var req application.UpdateProfileInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}
