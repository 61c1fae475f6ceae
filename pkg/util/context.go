package util

import (
	"github.com/gin-gonic/gin"
)

const (
	userIDKey      = "auth.user_id"
	usernameKey    = "auth.username"
	accessTokenKey = "auth.access_token"
	requestIDKey   = "request_id"
)

// SetUser stores the authenticated user on the gin context.
func SetUser(c *gin.Context, userID uint, username, accessToken string) {
	c.Set(userIDKey, userID)
	c.Set(usernameKey, username)
	c.Set(accessTokenKey, accessToken)
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	uid, ok := v.(uint)
	return uid, ok
}

// GetUsername returns the authenticated username, if any.
func GetUsername(c *gin.Context) (string, bool) {
	username := c.GetString(usernameKey)
	return username, username != ""
}

// GetAccessToken returns the bearer token that authenticated this request.
func GetAccessToken(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}

func SetRequestID(c *gin.Context, id string) {
	c.Set(requestIDKey, id)
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
