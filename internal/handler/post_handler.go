package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/internal/authz"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/model"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

// PostHandler handles HTTP requests for blog posts.
type PostHandler struct {
	Service    domain.PostService
	PictureURL model.PictureURLFunc
	log        *logger.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service domain.PostService, pictureURL model.PictureURLFunc, log *logger.Logger) *PostHandler {
	return &PostHandler{Service: service, PictureURL: pictureURL, log: log}
}

// CreatePost handles POST /posts.
func (h *PostHandler) CreatePost(c *gin.Context) {
	identity := identityFrom(c)
	var req domain.CreatePostRequest
	if !bindJSON(c, h.log, &req, func() error { return authz.RequireAuthenticated(identity) }) {
		return
	}
	post, err := h.Service.CreatePost(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, model.NewPostResponse(post, h.PictureURL))
}

// GetPost handles GET /posts/:id.
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := h.Service.GetPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.NewPostResponse(post, h.PictureURL))
}

// ListPosts handles GET /posts?page=N.
func (h *PostHandler) ListPosts(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	result, err := h.Service.ListPosts(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.NewPageResponse(result, h.PictureURL))
}

// ListPostsByAuthor handles GET /users/:username/posts?page=N.
func (h *PostHandler) ListPostsByAuthor(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	result, err := h.Service.ListPostsByAuthor(c.Request.Context(), c.Param("username"), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.NewPageResponse(result, h.PictureURL))
}

// UpdatePost handles PUT /posts/:id.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	identity := identityFrom(c)
	var req domain.UpdatePostRequest
	gate := func() error { return h.Service.CheckOwnership(c.Request.Context(), identity, id) }
	if !bindJSON(c, h.log, &req, gate) {
		return
	}
	post, err := h.Service.UpdatePost(c.Request.Context(), identity, id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.NewPostResponse(post, h.PictureURL))
}

// DeletePost handles DELETE /posts/:id.
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.Service.DeletePost(c.Request.Context(), identityFrom(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
