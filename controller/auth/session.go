package auth

import (
	"net/http"

	"salonbook/config"
	"salonbook/middleware"

	"github.com/gin-gonic/gin"
)

func Me(c *gin.Context, cfg *config.Config) {
	email := middleware.SessionEmail(c, cfg.CookieName)
	if email == "" {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false, "email": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": true, "email": email})
}

func Logout(c *gin.Context, cfg *config.Config) {
	// Stateless logout: there is no server-side session record to
	// revoke, only the cookie to drop.
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.SecureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func Session(c *gin.Context, cfg *config.Config) {
	email := middleware.SessionEmail(c, cfg.CookieName)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No active session found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email})
}
