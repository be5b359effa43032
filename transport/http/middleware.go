package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/internal/logger"
	"github.com/sakury/vidora/service"
)

const sessionKey = "session"

// AuthMiddleware resolves the caller's session and rejects requests without one
func AuthMiddleware(authService *service.AuthService, binder *Binder, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := binder.ExtractToken(c.Request)
		if !ok {
			handleError(c, log, core.ErrSessionRequired)
			return
		}

		session, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			handleError(c, log, err)
			return
		}

		c.Set(sessionKey, session)

		c.Next()
	}
}

// RequestLogger logs every request once it has been served
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.String())
		}

		if c.Writer.Status() >= 500 {
			log.Error("HTTP: request", args...)
			return
		}
		log.Info("HTTP: request", args...)
	}
}

func sessionFrom(c *gin.Context) (core.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return core.Session{}, false
	}
	session, ok := v.(core.Session)
	return session, ok
}
