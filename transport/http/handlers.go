package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/internal/logger"
	"github.com/sakury/vidora/service"
)

// AccountHandlers contains HTTP handlers for account endpoints
type AccountHandlers struct {
	authService *service.AuthService
	binder      *Binder
	logger      *logger.Logger
}

// NewAccountHandlers creates new account handlers
func NewAccountHandlers(authService *service.AuthService, binder *Binder, log *logger.Logger) *AccountHandlers {
	return &AccountHandlers{
		authService: authService,
		binder:      binder,
		logger:      log,
	}
}

type registerRequest struct {
	Email            string `form:"email" json:"email" binding:"required,email,max=150"`
	NickName         string `form:"nickName" json:"nickName" binding:"required,max=20"`
	RegisterPassword string `form:"registerPassword" json:"registerPassword" binding:"required,password"`
	CheckCode        string `form:"checkCode" json:"checkCode" binding:"required"`
	CheckCodeKey     string `form:"checkCodeKey" json:"checkCodeKey" binding:"required"`
}

type loginRequest struct {
	Email        string `form:"email" json:"email" binding:"required,email"`
	Password     string `form:"password" json:"password" binding:"required"`
	CheckCode    string `form:"checkCode" json:"checkCode" binding:"required"`
	CheckCodeKey string `form:"checkCodeKey" json:"checkCodeKey" binding:"required"`
}

// sessionView is the profile snapshot returned to the client
type sessionView struct {
	UserID           string `json:"userId"`
	NickName         string `json:"nickName"`
	Avatar           string `json:"avatar"`
	Token            string `json:"token,omitempty"`
	ExpireTime       int64  `json:"expireTime"`
	FanCount         int    `json:"fanCount"`
	CurrentCoinCount int    `json:"currentCoinCount"`
	FocusCount       int    `json:"focusCount"`
}

func newSessionView(s core.Session) sessionView {
	return sessionView{
		UserID:           s.UserID,
		NickName:         s.NickName,
		Avatar:           s.Avatar,
		Token:            s.Token,
		ExpireTime:       s.ExpireAt.UnixMilli(),
		FanCount:         s.FanCount,
		CurrentCoinCount: s.CurrentCoinCount,
		FocusCount:       s.FocusCount,
	}
}

// CheckCode issues a captcha challenge
func (h *AccountHandlers) CheckCode(c *gin.Context) {
	challenge, err := h.authService.CheckCode(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	success(c, gin.H{
		"checkCode":    challenge.Image,
		"checkCodeKey": challenge.ID,
	})
}

// Register handles account registration
func (h *AccountHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidParams(c)
		return
	}

	err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:         req.Email,
		NickName:      req.NickName,
		Password:      req.RegisterPassword,
		CaptchaAnswer: req.CheckCode,
		ChallengeID:   req.CheckCodeKey,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	success(c, nil)
}

// Login handles the login request
func (h *AccountHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		invalidParams(c)
		return
	}

	previous, _ := h.binder.ExtractToken(c.Request)

	session, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:         req.Email,
		Password:      req.Password,
		CaptchaAnswer: req.CheckCode,
		ChallengeID:   req.CheckCodeKey,
		ClientIP:      c.ClientIP(),
		PreviousToken: previous,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	h.binder.AttachToken(c, session.Token)
	success(c, newSessionView(session))
}

// AutoLogin restores the caller's session, renewing it when close to expiry
func (h *AccountHandlers) AutoLogin(c *gin.Context) {
	token, ok := h.binder.ExtractToken(c.Request)
	if !ok {
		success(c, nil)
		return
	}

	session, ok, err := h.authService.AutoLogin(c.Request.Context(), token)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	if !ok {
		success(c, nil)
		return
	}

	h.binder.AttachToken(c, session.Token)
	success(c, newSessionView(session))
}

// Logout ends the caller's session
func (h *AccountHandlers) Logout(c *gin.Context) {
	h.binder.ClearToken(c)
	success(c, nil)
}

// Me returns the profile of the authenticated user
func (h *AccountHandlers) Me(c *gin.Context) {
	// Session is set by the auth middleware
	session, ok := sessionFrom(c)
	if !ok {
		handleError(c, h.logger, core.ErrSessionRequired)
		return
	}

	view := newSessionView(session)
	view.Token = ""
	success(c, view)
}
