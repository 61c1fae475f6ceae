package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/internal/authz"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/model"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

type AccountHandler struct {
	Service domain.AccountService
	log     *logger.Logger
}

func NewAccountHandler(service domain.AccountService, log *logger.Logger) *AccountHandler {
	return &AccountHandler{Service: service, log: log}
}

// GetAccount handles GET /account.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	user, err := h.Service.GetAccount(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.NewUserResponse(user, h.Service.PictureURL, true))
}

// UpdateAccount handles PUT /account.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	identity := identityFrom(c)
	var req domain.UpdateAccountRequest
	if !bindJSON(c, h.log, &req, func() error { return authz.RequireAuthenticated(identity) }) {
		return
	}
	user, err := h.Service.UpdateAccount(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.NewUserResponse(user, h.Service.PictureURL, true))
}
