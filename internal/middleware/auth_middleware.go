package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/localmarket/commercehub/internal/repository"
	"github.com/localmarket/commercehub/internal/utils"
)

// Context keys set by the resolution middlewares.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextClaims   = "claims"
	ContextCommerce = "commerce"
)

// AuthMiddleware resolves a user principal. The Authorization header may
// carry the token with or without a "Bearer " prefix; the prefix is stripped
// when present. The user is reloaded so tokens of deleted accounts stop
// working immediately.
func AuthMiddleware(jwtSecret string, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ValidateUserToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		user, err := userRepo.GetUserByID(claims.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve user",
			})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, string(claims.Role))
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// CommerceMiddleware resolves a commerce principal. The commerce convention
// sends the raw token in the Authorization header with no scheme prefix; that
// asymmetry with the user path is part of the external contract and is kept.
// The full commerce record lands in the context because commerce endpoints
// need the cif and entity state, not just an id.
func CommerceMiddleware(jwtSecret string, commerceRepo *repository.CommerceRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header missing or malformed",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateCommerceToken(authHeader, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Please authenticate",
			})
			c.Abort()
			return
		}

		commerce, err := commerceRepo.GetCommerceByCIF(claims.CIF)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve commerce",
			})
			c.Abort()
			return
		}
		if commerce == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token or commerce not found",
			})
			c.Abort()
			return
		}

		c.Set(ContextCommerce, commerce)

		c.Next()
	}
}

// AdminMiddleware gates a route to admin users. Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			c.Abort()
			return
		}

		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
