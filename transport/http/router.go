package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sakury/vidora/internal/logger"
	"github.com/sakury/vidora/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, binder *Binder, log *logger.Logger, trustedProxies []string) (*gin.Engine, error) {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))

	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	// Create handlers
	handlers := NewAccountHandlers(authService, binder, log)

	account := router.Group("/account")
	{
		account.GET("/checkCode", handlers.CheckCode)
		account.POST("/register", handlers.Register)
		account.POST("/login", handlers.Login)
		account.POST("/autoLogin", handlers.AutoLogin)
		account.POST("/logout", handlers.Logout)
	}

	// Protected routes
	protected := router.Group("/account")
	protected.Use(AuthMiddleware(authService, binder, log))
	{
		protected.GET("/me", handlers.Me)
	}

	return router, nil
}
