package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/internal/domain/event"
	"github.com/baltotest/freight-api/pkg/helpers"
	"github.com/baltotest/freight-api/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Events  event.Publisher
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, events event.Publisher, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Events: events, Cookies: cookies, Logger: logger}
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req application.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Events.PublishUserRegistered(c.Request.Context(), res.User.Email, res.User.Name)
	h.Cookies.SetAccess(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusCreated, res, "signup successful", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetAccess(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

// Logout POST /api/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString("userID")); err != nil {
		h.Logger.WithError(err).Warn("drop session failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}
