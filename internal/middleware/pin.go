package middleware

import (
	"net/http"

	"despensa-backend/internal/models"
	"despensa-backend/internal/utils"
	"despensa-backend/pkg/database"

	"github.com/gin-gonic/gin"
)

// RequirePin gates destructive actions behind the tenant's security PIN,
// sent in the X-Security-Pin header. Must run after AuthMiddleware.
func RequirePin() gin.HandlerFunc {
	return func(c *gin.Context) {
		pin := c.GetHeader("X-Security-Pin")
		if pin == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Security PIN required"})
			return
		}

		userID := c.GetUint("userID")
		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account not found"})
			return
		}

		if !utils.CheckPasswordHash(pin, user.PinHash) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Incorrect security PIN"})
			return
		}
		c.Next()
	}
}
