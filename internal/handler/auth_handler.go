package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/internal/authz"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/model"
	"seungpyo.lee/PersonalBlog/pkg/logger"
	"seungpyo.lee/PersonalBlog/pkg/util"
)

// AuthHandler handles registration and sessions.
type AuthHandler struct {
	Service    domain.AuthService
	PictureURL model.PictureURLFunc
	log        *logger.Logger
}

func NewAuthHandler(service domain.AuthService, pictureURL model.PictureURLFunc, log *logger.Logger) *AuthHandler {
	return &AuthHandler{Service: service, PictureURL: pictureURL, log: log}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	identity := identityFrom(c)
	var req domain.RegisterRequest
	if !bindJSON(c, h.log, &req, func() error { return authz.RequireAnonymous(identity) }) {
		return
	}
	user, err := h.Service.Register(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewUserResponse(user, h.PictureURL, true))
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	identity := identityFrom(c)
	var req domain.LoginRequest
	if !bindJSON(c, h.log, &req, func() error { return authz.RequireAnonymous(identity) }) {
		return
	}
	resp, err := h.Service.Login(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.LoginResponse{
		Token:        resp.Token,
		ExpiresAt:    resp.ExpiresAt,
		RefreshToken: resp.RefreshToken,
		User:         model.NewUserResponse(&resp.User, h.PictureURL, true),
	})
}

// Logout handles POST /logout. The refresh token in the body is optional.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req model.LogoutRequest
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, h.log, &req, nil) {
			return
		}
	}
	if err := h.Service.Logout(c.Request.Context(), util.GetAccessToken(c), req.RefreshToken); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Refresh handles POST /refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token is required")
		return
	}
	token, exp, err := h.Service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.RefreshResponse{Token: token, ExpiresAt: exp})
}
