package router

import (
	"github.com/gin-gonic/gin"
	"github.com/meetly/meetly/engine/auth"
	"github.com/meetly/meetly/engine/auth/oauth"
	"github.com/meetly/meetly/engine/auth/uc"
)

// RegisterRoutes registers all auth routes
func RegisterRoutes(apiBase *gin.RouterGroup, repo uc.Repository, provider oauth.Provider, mw *auth.Middleware, session SessionConfig) {
	handler := NewHandler(repo, provider, session)

	authGroup := apiBase.Group("/auth")
	{
		// Login surface: no credential required.
		authGroup.GET("/login", handler.Login)
		authGroup.GET("/callback", handler.Callback)

		// Everything else requires a resolved identity.
		protected := authGroup.Group("")
		protected.Use(mw.RequireAuth())
		protected.POST("/logout", handler.Logout)
		protected.POST("/keys", handler.GenerateKey)
		protected.GET("/keys", handler.ListKeys)
		protected.DELETE("/keys/:id", handler.RevokeKey)
	}
}
