package api

import (
	"errors"
	"net/http"
	"strconv"

	"itemstore/internal/domain"
	"itemstore/internal/middleware"
	"itemstore/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateUserRequest is the body for POST /users/ (superuser only).
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FullName    string `json:"full_name"`
	IsSuperuser bool   `json:"is_superuser"`
}

// SignupRequest is the body for open registration.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// UpdateUserMeRequest carries optional profile overrides for the current user.
type UpdateUserMeRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

// UpdatePasswordRequest is the body for PATCH /users/me/password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UsersResponse is the list envelope for GET /users/.
type UsersResponse struct {
	Data  []domain.User `json:"data"`
	Count int64         `json:"count"`
}

// createUser inserts a user with a hashed password, reporting email conflicts.
func createUser(c *gin.Context, db *gorm.DB, email, password, fullName string, isSuperuser bool) {
	var existing domain.User
	if err := db.First(&existing, "email = ?", email).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "The user with this email already exists in the system"})
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to hash password"})
		return
	}

	user := domain.User{
		Email:          email,
		HashedPassword: hash,
		FullName:       fullName,
		IsActive:       true,
		IsSuperuser:    isSuperuser,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "The user with this email already exists in the system"})
		return
	}

	logrus.WithFields(logrus.Fields{
		"user_id":      user.ID,
		"is_superuser": user.IsSuperuser,
	}).Info("User created")
	c.JSON(http.StatusOK, user)
}

// CreateUserHandler creates a user as a superuser
func CreateUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request"})
			return
		}
		createUser(c, db, req.Email, req.Password, req.FullName, req.IsSuperuser)
	}
}

// SignupHandler registers a new normal user
func SignupHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request"})
			return
		}
		createUser(c, db, req.Email, req.Password, req.FullName, false)
	}
}

// ReadUsersHandler lists all users (superuser only)
func ReadUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip := 0
		limit := 100
		if s := c.Query("skip"); s != "" {
			if v, err := strconv.Atoi(s); err == nil && v >= 0 {
				skip = v
			}
		}
		if l := c.Query("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 1000 {
				limit = v
			}
		}

		var count int64
		if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to count users"})
			return
		}
		var users []domain.User
		if err := db.Order("id").Offset(skip).Limit(limit).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list users"})
			return
		}
		if users == nil {
			users = []domain.User{}
		}
		c.JSON(http.StatusOK, UsersResponse{Data: users, Count: count})
	}
}

// ReadUserHandler returns a user by ID. The literal id "me" resolves to the
// current user; other users are only visible to themselves and superusers.
func ReadUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := middleware.CurrentUser(c)
		param := c.Param("id")
		if param == "me" {
			c.JSON(http.StatusOK, requester)
			return
		}

		id, err := uuid.Parse(param)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		if id == requester.ID {
			c.JSON(http.StatusOK, requester)
			return
		}
		if !requester.IsSuperuser {
			c.JSON(http.StatusForbidden, gin.H{"detail": "The user doesn't have enough privileges"})
			return
		}

		var user domain.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateUserMeHandler updates the current user's profile
func UpdateUserMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := middleware.CurrentUser(c)
		var req UpdateUserMeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request"})
			return
		}

		updates := map[string]any{}
		if req.Email != nil {
			var existing domain.User
			err := db.First(&existing, "email = ? AND id <> ?", *req.Email, requester.ID).Error
			if err == nil {
				c.JSON(http.StatusConflict, gin.H{"detail": "User with this email already exists"})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
				return
			}
			updates["email"] = *req.Email
			requester.Email = *req.Email
		}
		if req.FullName != nil {
			updates["full_name"] = *req.FullName
			requester.FullName = *req.FullName
		}
		if len(updates) > 0 {
			if err := db.Model(&domain.User{}).Where("id = ?", requester.ID).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update user"})
				return
			}
		}
		c.JSON(http.StatusOK, requester)
	}
}

// UpdatePasswordMeHandler changes the current user's password
func UpdatePasswordMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := middleware.CurrentUser(c)
		var req UpdatePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request"})
			return
		}

		if !utils.VerifyPassword(req.CurrentPassword, requester.HashedPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Incorrect password"})
			return
		}
		if req.CurrentPassword == req.NewPassword {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "New password cannot be the same as the current one"})
			return
		}

		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to hash password"})
			return
		}
		if err := db.Model(&domain.User{}).Where("id = ?", requester.ID).Update("hashed_password", hash).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update password"})
			return
		}

		logrus.WithFields(logrus.Fields{"user_id": requester.ID}).Info("Password changed")
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

// DeleteUserHandler deletes a user and their items (superuser only)
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := middleware.CurrentUser(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		if id == requester.ID {
			c.JSON(http.StatusForbidden, gin.H{"detail": "Super users are not allowed to delete themselves"})
			return
		}

		var user domain.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}

		// Items go first so no item is ever left without an owner.
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("owner_id = ?", user.ID).Delete(&domain.Item{}).Error; err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("User deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete user"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"deleted_by": requester.ID,
		}).Info("User deleted")
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}
