package auth

import (
	"salonbook/config"
	"salonbook/services"

	"github.com/gin-gonic/gin"
)

func AuthController(router *gin.Engine, cfg *config.Config, otpService *services.OTPService) {
	routes := router.Group("/api")
	{
		routes.POST("/send-otp", func(c *gin.Context) {
			SendOTP(c, otpService)
		})
		routes.POST("/verify-otp", func(c *gin.Context) {
			VerifyOTP(c, cfg, otpService)
		})
		routes.GET("/me", func(c *gin.Context) {
			Me(c, cfg)
		})
		routes.POST("/logout", func(c *gin.Context) {
			Logout(c, cfg)
		})
		routes.GET("/session", func(c *gin.Context) {
			Session(c, cfg)
		})
	}
}
