package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

type ResetHandler struct {
	Service domain.ResetService
	log     *logger.Logger
}

func NewResetHandler(service domain.ResetService, log *logger.Logger) *ResetHandler {
	return &ResetHandler{Service: service, log: log}
}

// RequestReset handles POST /reset_password. The response never carries the token.
func (h *ResetHandler) RequestReset(c *gin.Context) {
	identity := identityFrom(c)
	var req domain.ResetRequest
	if !bindJSON(c, h.log, &req, func() error { return h.Service.CheckRequester(identity) }) {
		return
	}
	if err := h.Service.RequestReset(c.Request.Context(), identity, req); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "An email has been sent with instructions to reset your password."})
}

// CheckToken handles GET /reset_password/:token.
func (h *ResetHandler) CheckToken(c *gin.Context) {
	user, err := h.Service.CheckToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "username": user.Username})
}

// ResetPassword handles POST /reset_password/:token.
func (h *ResetHandler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	var req domain.ResetPasswordRequest
	gate := func() error {
		_, err := h.Service.CheckToken(c.Request.Context(), token)
		return err
	}
	if !bindJSON(c, h.log, &req, gate) {
		return
	}
	if err := h.Service.ResetPassword(c.Request.Context(), token, req); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your password has been updated! You are now able to log in."})
}
