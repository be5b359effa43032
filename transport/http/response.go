package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/internal/logger"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope codes carried in every response body
const (
	CodeSuccess        = 200
	CodeServerError    = 500
	CodeBusinessError  = 600
	CodeSessionExpired = 901
)

const (
	infoSuccess        = "request succeeded"
	infoInvalidParams  = "invalid request parameters"
	infoServerError    = "server error"
	infoSessionExpired = "login expired, please log in again"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Status string `json:"status"`
	Code   int    `json:"code"`
	Info   string `json:"info"`
	Data   any    `json:"data"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Status: statusSuccess,
		Code:   CodeSuccess,
		Info:   infoSuccess,
		Data:   data,
	})
}

func invalidParams(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status: statusError,
		Code:   CodeBusinessError,
		Info:   infoInvalidParams,
	})
}

// handleError maps err onto the response envelope
func handleError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrSessionRequired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
			Status: statusError,
			Code:   CodeSessionExpired,
			Info:   infoSessionExpired,
		})
	case core.IsBusiness(err):
		c.JSON(http.StatusOK, Response{
			Status: statusError,
			Code:   CodeBusinessError,
			Info:   businessMessage(err),
		})
	default:
		log.Error("HTTP: request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err.Error())
		c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
			Status: statusError,
			Code:   CodeServerError,
			Info:   infoServerError,
		})
	}
}

// businessMessage returns the user-facing message of the sentinel behind err
func businessMessage(err error) string {
	for _, target := range []error{
		core.ErrInvalidCaptcha,
		core.ErrDuplicateEmail,
		core.ErrDuplicateNickname,
		core.ErrInvalidCredentials,
		core.ErrAccountDisabled,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
