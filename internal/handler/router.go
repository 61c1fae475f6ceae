package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"seungpyo.lee/PersonalBlog/internal/domain"
	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/pkg/jwt"
	"seungpyo.lee/PersonalBlog/pkg/logger"
	"seungpyo.lee/PersonalBlog/pkg/middleware"
)

// Services bundles everything the router dispatches to.
type Services struct {
	Auth    domain.AuthService
	Account domain.AccountService
	Reset   domain.ResetService
	Posts   domain.PostService
}

// StaticDir is served as-is, e.g. profile pictures kept on local disk.
type StaticDir struct {
	URLPrefix string
	Dir       string
}

// DefaultMaxBodyBytes leaves room for a base64 profile picture of a few megabytes.
const DefaultMaxBodyBytes = 8 << 20

type Options struct {
	MaxBodyBytes int64
	Static       []StaticDir
}

// NewRouter builds the gin engine. Every route passes through the optional identity
// middleware; the services decide what an anonymous caller may do.
func NewRouter(svc Services, tokenManager jwt.TokenManager, log *logger.Logger, opts Options) *gin.Engine {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log), middleware.HTTPMetrics(),
		middleware.MaxBodySize(opts.MaxBodyBytes))

	for _, s := range opts.Static {
		r.Static(s.URLPrefix, s.Dir)
	}
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authH := NewAuthHandler(svc.Auth, svc.Account.PictureURL, log)
	accountH := NewAccountHandler(svc.Account, log)
	resetH := NewResetHandler(svc.Reset, log)
	postH := NewPostHandler(svc.Posts, svc.Account.PictureURL, log)

	r.POST("/logout", middleware.AuthMiddleware(tokenManager), authH.Logout)
	r.POST("/refresh", authH.Refresh)

	api := r.Group("/", middleware.IdentityMiddleware(tokenManager))
	{
		api.POST("/register", authH.Register)
		api.POST("/login", authH.Login)

		api.GET("/account", accountH.GetAccount)
		api.PUT("/account", accountH.UpdateAccount)

		api.POST("/reset_password", resetH.RequestReset)
		api.GET("/reset_password/:token", resetH.CheckToken)
		api.POST("/reset_password/:token", resetH.ResetPassword)

		api.GET("/posts", postH.ListPosts)
		api.POST("/posts", postH.CreatePost)
		api.GET("/posts/:id", postH.GetPost)
		api.PUT("/posts/:id", postH.UpdatePost)
		api.DELETE("/posts/:id", postH.DeletePost)
		api.GET("/users/:username/posts", postH.ListPostsByAuthor)
	}
	return r
}
