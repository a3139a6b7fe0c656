package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"navid/server/service"
)

// AuthHandler exposes the account entry points. These routes are the only
// ones reachable without a session.
type AuthHandler struct {
	auth      *service.AuthService
	cookieAge int
	log       *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, cookieAge int, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookieAge: cookieAge, log: log}
}

// Register mounts the auth routes on rg.
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.me)
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/signup", h.signup)
	rg.POST("/auth/logout", h.logout)
	rg.POST("/auth/forgot-password", h.forgotPassword)
	rg.POST("/auth/reset-password", h.resetPassword)
	rg.POST("/auth/oauth/google", h.googleOAuth)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) me(c *gin.Context) {
	sess, err := h.auth.Me(c.Request.Context(), sessionToken(c))
	if err != nil {
		fail(c, err)
		return
	}
	if sess == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sess, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sess, token, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, sess)
}

func (h *AuthHandler) logout(c *gin.Context) {
	h.auth.Logout(sessionToken(c))
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.auth.ForgotPassword(c.Request.Context(), req.Email)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	// The reset is session-aware when the caller happens to be signed in.
	sessionUserID, _ := h.auth.ResolveToken(sessionToken(c))
	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password, sessionUserID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) googleOAuth(c *gin.Context) {
	sess, token, err := h.auth.GoogleOAuth(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(SessionCookie, token, h.cookieAge, "/", "", false, true)
}
