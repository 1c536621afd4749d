package handler

import (
	"net/http"
	"strings"

	"github.com/bilogames/account-service/internal/dto"
	"github.com/bilogames/account-service/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxClaims = "claims"
)

// AuthMiddleware validates the bearer session token and adds user info to context.
// A missing token is 401, a rejected one 403.
func AuthMiddleware(accounts service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Token required"})
			return
		}

		claims, err := accounts.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxClaims, claims)

		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// currentUserID returns the authenticated user id set by AuthMiddleware
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Token required"})
		return "", false
	}
	return userID, true
}
