package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/pkg/response"
)

type LoadHandler struct {
	Svc    *application.LoadService
	Logger *logrus.Logger
}

func NewLoadHandler(svc *application.LoadService, logger *logrus.Logger) *LoadHandler {
	return &LoadHandler{Svc: svc, Logger: logger}
}

type statusRequest struct {
	Status string `json:"status"`
}

type etaRequest struct {
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date"`
}

func (h *LoadHandler) one(c *gin.Context, status int, msg string, l *application.LoadResponse, err error) {
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, status, l, msg, nil)
}

func (h *LoadHandler) many(c *gin.Context, ls []application.LoadResponse, err error) {
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ls, "loads", map[string]any{"count": len(ls)})
}

// Create POST /api/loads
func (h *LoadHandler) Create(c *gin.Context) {
	var req application.CreateLoadInput
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Svc.Create(c.Request.Context(), req)
	h.one(c, http.StatusCreated, "load created", l, err)
}

// Get GET /api/loads/:id
func (h *LoadHandler) Get(c *gin.Context) {
	l, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	h.one(c, http.StatusOK, "load", l, err)
}

// List GET /api/loads?status=
func (h *LoadHandler) List(c *gin.Context) {
	ls, err := h.Svc.ListByStatus(c.Request.Context(), c.Query("status"))
	h.many(c, ls, err)
}

func (h *LoadHandler) ListByBroker(c *gin.Context) {
	ls, err := h.Svc.ListByBroker(c.Request.Context(), c.Param("id"))
	h.many(c, ls, err)
}

func (h *LoadHandler) ListByCustomer(c *gin.Context) {
	ls, err := h.Svc.ListByCustomer(c.Request.Context(), c.Param("id"))
	h.many(c, ls, err)
}

func (h *LoadHandler) ListByCarrier(c *gin.Context) {
	ls, err := h.Svc.ListByCarrier(c.Request.Context(), c.Param("id"))
	h.many(c, ls, err)
}

// Search GET /api/loads/search?q=&size=
func (h *LoadHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	ls, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	h.many(c, ls, err)
}

// Update PUT /api/loads/:id
func (h *LoadHandler) Update(c *gin.Context) {
	var req application.UpdateLoadInput
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req)
	h.one(c, http.StatusOK, "load updated", l, err)
}

// UpdateStatus PUT /api/loads/:id/status
func (h *LoadHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	h.one(c, http.StatusOK, "load status updated", l, err)
}

// UpdateETA PUT /api/loads/:id/eta
func (h *LoadHandler) UpdateETA(c *gin.Context) {
	var req etaRequest
	if !bindJSON(c, &req) {
		return
	}
	l, err := h.Svc.UpdateEstimatedDelivery(c.Request.Context(), c.Param("id"), req.EstimatedDeliveryDate)
	h.one(c, http.StatusOK, "load eta updated", l, err)
}

// AssignCarrier PUT /api/loads/:id/carrier/:carrierId
func (h *LoadHandler) AssignCarrier(c *gin.Context) {
	l, err := h.Svc.AssignCarrier(c.Request.Context(), c.Param("id"), c.Param("carrierId"))
	h.one(c, http.StatusOK, "carrier assigned", l, err)
}

// Delete DELETE /api/loads/:id
func (h *LoadHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "load deleted", nil)
}
