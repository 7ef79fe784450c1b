package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localmarket/commercehub/internal/middleware"
	"github.com/localmarket/commercehub/internal/models"
	"github.com/localmarket/commercehub/internal/service"
	"github.com/localmarket/commercehub/pkg/logger"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type UserUpdateRequest struct {
	Name        *string  `json:"name"`
	Email       *string  `json:"email"`
	Password    *string  `json:"password"`
	Age         *int     `json:"age"`
	City        *string  `json:"city"`
	Interest    []string `json:"interest"`
	AllowOffers *bool    `json:"allowOffers"`
	Role        *string  `json:"role"`
}

// Update modifies the calling user's own record.
// PUT /api/users/update
func (h *UserHandler) Update(c *gin.Context) {
	userID := currentUserID(c)

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	// Role changes are refused outright, not silently dropped.
	if req.Role != nil {
		logger.Log.Warn("User attempted role change",
			zap.String("user_id", userID.String()),
		)
		c.JSON(http.StatusForbidden, gin.H{
			"error": service.ErrRoleImmutable.Error(),
		})
		return
	}

	user, err := h.userService.Update(userID, service.UserUpdateInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Age:         req.Age,
		City:        req.City,
		Interest:    req.Interest,
		AllowOffers: req.AllowOffers,
	})
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, service.ErrUserNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes the calling user's own record.
// DELETE /api/users/delete
func (h *UserHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)

	if err := h.userService.Delete(userID); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, service.ErrUserNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// InterestedEmails returns the emails of offer-opted users whose interests
// match the calling commerce's storefront activity.
// GET /api/users/interest
func (h *UserHandler) InterestedEmails(c *gin.Context) {
	commerce := currentCommerce(c)

	emails, err := h.userService.InterestedEmails(commerce.CIF)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, service.ErrCommerceNotFound) || errors.Is(err, service.ErrStorefrontNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, emails)
}

// currentUserID reads the principal id resolved by AuthMiddleware.
func currentUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(middleware.ContextUserID)
	userID, _ := id.(uuid.UUID)
	return userID
}

// currentCommerce reads the commerce resolved by CommerceMiddleware.
func currentCommerce(c *gin.Context) *models.Commerce {
	v, _ := c.Get(middleware.ContextCommerce)
	commerce, _ := v.(*models.Commerce)
	return commerce
}
