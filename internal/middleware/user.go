package middleware

import (
	"net/http"

	"itemstore/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActiveUserMiddleware resolves the authenticated user on each request so a
// token for a deleted or deactivated account is rejected immediately.
func ActiveUserMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		var user domain.User
		if err := db.First(&user, "id = ?", userID.(uuid.UUID)).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Inactive user"})
			return
		}
		c.Set("currentUser", &user)
		c.Next()
	}
}

// SuperuserOnlyMiddleware restricts a route to superusers
func SuperuserOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		if !user.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "The user doesn't have enough privileges"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by ActiveUserMiddleware.
func CurrentUser(c *gin.Context) *domain.User {
	user, exists := c.Get("currentUser")
	if !exists {
		return nil
	}
	u, _ := user.(*domain.User)
	return u
}
