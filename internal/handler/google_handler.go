package handler

import (
	"net/http"

	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GoogleHandler handles sign-in and sign-up with Google
type GoogleHandler struct {
	google service.GoogleAuthService
	logger *zap.Logger
}

func NewGoogleHandler(google service.GoogleAuthService, logger *zap.Logger) *GoogleHandler {
	return &GoogleHandler{
		google: google,
		logger: logger,
	}
}

// Authenticate signs in a known Google identity or stages a new one
// @Summary Sign in with Google
// @Tags google
// @Accept json
// @Produce json
// @Param request body dto.GoogleAuthRequest true "Google credential"
// @Success 200 {object} dto.GoogleAuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/google [post]
func (h *GoogleHandler) Authenticate(c *gin.Context) {
	var req dto.GoogleAuthRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.google.Authenticate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Register completes sign-up for a staged Google identity
// @Summary Complete Google sign-up
// @Tags google
// @Accept json
// @Produce json
// @Param request body dto.GoogleRegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auth/google/register [post]
func (h *GoogleHandler) Register(c *gin.Context) {
	var req dto.GoogleRegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.google.CompleteRegistration(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}
