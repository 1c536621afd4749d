package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler of the account API
type Handlers struct {
	Auth         *AuthHandler
	Verification *VerificationHandler
	Password     *PasswordHandler
	Google       *GoogleHandler
}

// RegisterRoutes mounts the account API under /api/auth
func RegisterRoutes(router gin.IRouter, h Handlers, requireAuth gin.HandlerFunc) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/google", h.Google.Authenticate)
		auth.POST("/google/register", h.Google.Register)
		auth.POST("/forgot-password", h.Password.ForgotPassword)
		auth.POST("/verify-reset-code", h.Password.VerifyResetCode)
		auth.POST("/reset-password", h.Password.ResetPassword)
	}

	protected := auth.Group("")
	protected.Use(requireAuth)
	{
		protected.GET("/me", h.Auth.Me)
		protected.PUT("/update", h.Auth.UpdateProfile)
		protected.DELETE("/delete", h.Auth.DeleteAccount)
		protected.POST("/send-verification", h.Verification.SendVerification)
		protected.POST("/verify-email", h.Verification.VerifyEmail)
	}
}
