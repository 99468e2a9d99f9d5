package auth

import (
	"errors"
	"log"
	"net/http"

	"salonbook/config"
	"salonbook/dto"
	"salonbook/security"
	"salonbook/services"

	"github.com/gin-gonic/gin"
)

func SendOTP(c *gin.Context, otpService *services.OTPService) {
	var req dto.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err := otpService.Issue(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "OTP sent"})
	case errors.Is(err, services.ErrInvalidEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing email"})
	case errors.Is(err, services.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
	case errors.Is(err, services.ErrDeliveryFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "OTP generated but failed to send email."})
	default:
		log.Printf("send-otp error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

func VerifyOTP(c *gin.Context, cfg *config.Config, otpService *services.OTPService) {
	var req dto.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and OTP are required"})
		return
	}

	err := otpService.Verify(c.Request.Context(), req.Email, req.OTP)
	switch {
	case err == nil:
		// Fall through to cookie issuance.
	case errors.Is(err, services.ErrNoActiveSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired OTP session"})
		return
	case errors.Is(err, services.ErrExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "OTP expired"})
		return
	case errors.Is(err, services.ErrTooManyAttempts):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Maximum attempts reached."})
		return
	case errors.Is(err, services.ErrInvalidOTP):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid OTP"})
		return
	default:
		log.Printf("verify-otp error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	// The cookie carries the actual normalized email, not its hash, so
	// downstream handlers can query appointments by owner directly.
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cfg.CookieName, security.NormalizeEmail(req.Email), cfg.CookieMaxAge, "/", "", cfg.SecureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified"})
}
