package handler

import (
	"net/http"

	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgResetRequested = "If an account exists for this email, a reset code has been sent"

// PasswordHandler handles the forgot-password flow
type PasswordHandler struct {
	resets service.PasswordResetService
	logger *zap.Logger
}

func NewPasswordHandler(resets service.PasswordResetService, logger *zap.Logger) *PasswordHandler {
	return &PasswordHandler{
		resets: resets,
		logger: logger,
	}
}

// ForgotPassword issues a reset code. The response does not reveal whether the email exists.
// @Router /api/auth/forgot-password [post]
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.resets.ForgotPassword(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: msgResetRequested})
}

// VerifyResetCode checks a reset code without consuming it
// @Router /api/auth/verify-reset-code [post]
func (h *PasswordHandler) VerifyResetCode(c *gin.Context) {
	var req dto.VerifyResetCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.resets.VerifyResetCode(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ValidResponse{Valid: true})
}

// ResetPassword sets a new password and consumes the code
// @Router /api/auth/reset-password [post]
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.resets.ResetPassword(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password reset successfully"})
}
