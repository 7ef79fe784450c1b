package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/localmarket/commercehub/internal/service"
	"github.com/localmarket/commercehub/pkg/logger"
)

// CommerceHandler exposes the admin-gated merchant directory.
type CommerceHandler struct {
	commerceService *service.CommerceService
}

func NewCommerceHandler(commerceService *service.CommerceService) *CommerceHandler {
	return &CommerceHandler{
		commerceService: commerceService,
	}
}

type CommerceCreateRequest struct {
	Name    string `json:"name" binding:"required"`
	CIF     string `json:"cif" binding:"required"`
	Address string `json:"address" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	PageID  int    `json:"pageId" binding:"required"`
}

type CommerceUpdateRequest struct {
	CIF     string  `json:"cif"`
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	PageID  *int    `json:"pageId"`
}

// List returns every commerce.
// GET /api/commerces/view-all
func (h *CommerceHandler) List(c *gin.Context) {
	commerces, err := h.commerceService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch commerces",
		})
		return
	}

	c.JSON(http.StatusOK, commerces)
}

// View returns a commerce by CIF, refreshing its bearer token in the process.
// The returned record carries the fresh token; that is how a commerce gets
// its credential.
// GET /api/commerces/view/:cif
func (h *CommerceHandler) View(c *gin.Context) {
	cif := c.Param("cif")

	commerce, err := h.commerceService.RefreshAndGet(cif)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, service.ErrCommerceNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, commerce)
}

// Create registers a new commerce.
// POST /api/commerces/create
func (h *CommerceHandler) Create(c *gin.Context) {
	var req CommerceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	logger.Log.Info("Admin creating commerce",
		zap.String("cif", req.CIF),
		zap.String("admin_id", c.GetString("user_id")),
	)

	commerce, err := h.commerceService.Create(service.CommerceInput{
		Name:    req.Name,
		CIF:     req.CIF,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		PageID:  req.PageID,
	})
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, service.ErrCIFAlreadyExists) {
			statusCode = http.StatusConflict
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Commerce saved",
		"commerce": commerce,
	})
}

// Update modifies a commerce by CIF. Changing the CIF itself is forbidden.
// PUT /api/commerces/update/:cif
func (h *CommerceHandler) Update(c *gin.Context) {
	cif := c.Param("cif")

	var req CommerceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	err := h.commerceService.Update(cif, req.CIF, service.CommerceUpdateInput{
		Name:    req.Name,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		PageID:  req.PageID,
	})
	if err != nil {
		statusCode := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrCIFImmutable):
			statusCode = http.StatusForbidden
		case errors.Is(err, service.ErrCommerceNotFound):
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Commerce updated",
	})
}

// Delete removes a commerce by CIF. Its storefront, if any, is not cascaded.
// DELETE /api/commerces/delete/:cif
func (h *CommerceHandler) Delete(c *gin.Context) {
	cif := c.Param("cif")

	if err := h.commerceService.Delete(cif); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, service.ErrCommerceNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Commerce deleted",
	})
}
