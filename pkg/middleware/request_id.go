package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
	"seungpyo.lee/PersonalBlog/pkg/util"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags every request with a ksuid, reusing a well-formed id supplied by the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := ksuid.Parse(id); err != nil {
			id = ksuid.New().String()
		}
		util.SetRequestID(c, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
