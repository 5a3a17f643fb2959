package api

import (
	"itemstore/internal/email"
	"itemstore/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewRouter builds the gin engine with all endpoints registered under the
// /api/v1 prefix.
func NewRouter(db *gorm.DB, rdb *redis.Client, mailer email.Mailer, jwtSecret string) *gin.Engine {
	r := gin.Default()
	v1 := r.Group("/api/v1")

	// Public routes.
	v1.POST("/login/access-token", LoginAccessTokenHandler(db, jwtSecret))
	v1.POST("/password-recovery/:email", RecoverPasswordHandler(db, mailer, jwtSecret))
	v1.POST("/reset-password/", ResetPasswordHandler(db, jwtSecret))
	v1.POST("/users/signup", SignupHandler(db))

	// Routes requiring an active authenticated user.
	authed := v1.Group("")
	authed.Use(middleware.JWTAuthMiddleware(jwtSecret), middleware.ActiveUserMiddleware(db))

	authed.POST("/login/test-token", TestTokenHandler())

	authed.POST("/items/", CreateItemHandler(db))
	authed.GET("/items/", ReadItemsHandler(db))
	authed.GET("/items/:id", ReadItemHandler(db, rdb))
	authed.PUT("/items/:id", UpdateItemHandler(db, rdb))
	authed.DELETE("/items/:id", DeleteItemHandler(db, rdb))

	authed.GET("/users/:id", ReadUserHandler(db))
	authed.PATCH("/users/me", UpdateUserMeHandler(db))
	authed.PATCH("/users/me/password", UpdatePasswordMeHandler(db))

	// Superuser-only user administration.
	admin := authed.Group("")
	admin.Use(middleware.SuperuserOnlyMiddleware())
	admin.POST("/users/", CreateUserHandler(db))
	admin.GET("/users/", ReadUsersHandler(db))
	admin.DELETE("/users/:id", DeleteUserHandler(db))

	return r
}
