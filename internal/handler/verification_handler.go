package handler

import (
	"net/http"

	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VerificationHandler handles email verification requests
type VerificationHandler struct {
	verifications service.VerificationService
	logger        *zap.Logger
}

func NewVerificationHandler(verifications service.VerificationService, logger *zap.Logger) *VerificationHandler {
	return &VerificationHandler{
		verifications: verifications,
		logger:        logger,
	}
}

// SendVerification mails a fresh verification code to the authenticated user
// @Router /api/auth/send-verification [post]
func (h *VerificationHandler) SendVerification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.verifications.SendVerification(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Verification code sent"})
}

// VerifyEmail redeems a verification code
// @Router /api/auth/verify-email [post]
func (h *VerificationHandler) VerifyEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.verifications.VerifyEmail(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
