package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/pkg/logger"
	"seungpyo.lee/PersonalBlog/pkg/util"
)

// respondError maps a service error onto a status code and a JSON body.
// Unexpected errors are logged and answered with a generic 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fields := make(map[string][]string)
		for _, f := range verr.Fields {
			fields[f.Field] = append(fields[f.Field], f.Message)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}

	status, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, domain.ErrAuthenticationFailed):
		status, msg = http.StatusUnauthorized, domain.ErrAuthenticationFailed.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		status, msg = http.StatusUnauthorized, domain.ErrUnauthenticated.Error()
	case errors.Is(err, domain.ErrAuthorizationDenied):
		status, msg = http.StatusForbidden, domain.ErrAuthorizationDenied.Error()
	case errors.Is(err, domain.ErrResetTokenRejected):
		status, msg = http.StatusBadRequest, domain.ErrResetTokenRejected.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrAlreadyAuthenticated):
		status, msg = http.StatusConflict, domain.ErrAlreadyAuthenticated.Error()
	case errors.Is(err, domain.ErrConflict):
		status, msg = http.StatusConflict, domain.ErrConflict.Error()
	default:
		log.Error("request failed", "path", c.FullPath(), "request_id", util.GetRequestID(c), "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// bindJSON decodes the body into obj. When the body is unusable, gate runs first so
// identity and ownership failures are reported ahead of the malformed body.
func bindJSON(c *gin.Context, log *logger.Logger, obj interface{}, gate func() error) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	if gate != nil {
		if gerr := gate(); gerr != nil {
			respondError(c, log, gerr)
			return false
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return false
	}
	badRequest(c, "invalid request body")
	return false
}

// identityFrom returns the caller set by the identity middleware, or nil for anonymous requests.
func identityFrom(c *gin.Context) *domain.Identity {
	uid, ok := util.GetUserID(c)
	if !ok || uid == 0 {
		return nil
	}
	username, _ := util.GetUsername(c)
	return &domain.Identity{UserID: uid, Username: username}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}

// parsePage reads ?page=, defaulting to 1. Malformed values become a page validation error.
func parsePage(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": map[string][]string{"page": {"Page must be a positive integer."}},
		})
		return 0, false
	}
	return page, true
}
