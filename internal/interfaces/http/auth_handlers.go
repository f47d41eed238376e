package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-dashboard/internal/application/form"
	"github.com/garyjia/invoice-dashboard/internal/application/service"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

const (
	// SessionCookieName holds the session token
	SessionCookieName = "session"

	// Context keys set by RequireSession
	ContextUserIDKey = "userID"
	ContextEmailKey  = "userEmail"

	authHeaderPrefix = "Bearer "
)

// LoginRequest is the posted sign-in form
type LoginRequest struct {
	form.LoginForm
	RedirectTo string `form:"redirectTo"`
}

// Login handles POST /login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Error("Failed to read login form", "error", err)
	}

	session, msg, err := h.services.Auth.Authenticate(c.Request.Context(), req.LoginForm)
	if err != nil {
		h.logger.Error("Sign-in failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "internal error",
		})
		return
	}

	if msg != "" {
		status := http.StatusInternalServerError
		if msg == service.MsgInvalidCredentials {
			status = http.StatusUnauthorized
		}
		c.JSON(status, Response{
			Success: false,
			Error:   msg,
		})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, session.Token, maxAge, "/", "", h.secureCookie, true)

	c.Redirect(http.StatusSeeOther, safeRedirect(req.RedirectTo))
}

// Logout handles POST /logout
func (h *Handlers) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusSeeOther, entity.LoginPath)
}

// RequireSession rejects requests without a valid session cookie or bearer
// token. Browsers are sent to the login page instead.
func (h *Handlers) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			h.rejectSession(c)
			return
		}

		claims, err := h.services.Auth.VerifySession(token)
		if err != nil {
			h.logger.Info("Session rejected", "path", c.Request.URL.Path, "error", err.Error())
			h.rejectSession(c)
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, authHeaderPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, authHeaderPrefix))
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

func (h *Handlers) rejectSession(c *gin.Context) {
	if c.Request.Method == http.MethodGet && strings.Contains(c.GetHeader("Accept"), "text/html") {
		target := entity.LoginPath + "?" + url.Values{"redirectTo": {c.Request.URL.RequestURI()}}.Encode()
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Success: false,
		Error:   "authentication required",
	})
}

// safeRedirect only follows local dashboard paths
func safeRedirect(target string) string {
	if strings.HasPrefix(target, entity.DashboardPath) && !strings.HasPrefix(target, "//") {
		return target
	}
	return entity.DashboardPath
}
