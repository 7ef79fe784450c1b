package handler

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localmarket/commercehub/internal/service"
	"github.com/localmarket/commercehub/pkg/logger"
)

// StorefrontHandler exposes the public storefront pages and the
// owner-scoped mutations on them.
type StorefrontHandler struct {
	storefrontService *service.StorefrontService
	uploadDir         string
}

func NewStorefrontHandler(storefrontService *service.StorefrontService, uploadDir string) *StorefrontHandler {
	return &StorefrontHandler{
		storefrontService: storefrontService,
		uploadDir:         uploadDir,
	}
}

type StorefrontCreateRequest struct {
	CommerceCIF string   `json:"commerceCIF" binding:"required"`
	City        string   `json:"city" binding:"required"`
	Activity    string   `json:"activity" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Summary     string   `json:"summary" binding:"required"`
	Text        []string `json:"text" binding:"required"`
	Images      []string `json:"images"`
}

type StorefrontUpdateRequest struct {
	City     *string  `json:"city"`
	Activity *string  `json:"activity"`
	Title    *string  `json:"title"`
	Summary  *string  `json:"summary"`
	Text     []string `json:"text"`
}

type ReviewRequest struct {
	Review string   `json:"review" binding:"required"`
	Rating *float64 `json:"rating" binding:"required"`
}

// View returns a storefront by commerce CIF, archived or not.
// GET /api/webCommerce/view/:commerceCIF
func (h *StorefrontHandler) View(c *gin.Context) {
	web, err := h.storefrontService.GetByCIF(c.Param("commerceCIF"))
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, service.ErrStorefrontNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, web)
}

// Create builds the storefront for the authenticated commerce.
// POST /api/webCommerce/create
func (h *StorefrontHandler) Create(c *gin.Context) {
	commerce := currentCommerce(c)

	var req StorefrontCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	web, err := h.storefrontService.Create(commerce.CIF, service.StorefrontInput{
		CommerceCIF: req.CommerceCIF,
		City:        req.City,
		Activity:    req.Activity,
		Title:       req.Title,
		Summary:     req.Summary,
		Text:        req.Text,
		Images:      req.Images,
	})
	if err != nil {
		statusCode := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrNotOwner):
			statusCode = http.StatusForbidden
		case errors.Is(err, service.ErrStorefrontExists):
			statusCode = http.StatusConflict
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, web)
}

// Update merges a partial into the authenticated commerce's own storefront.
// PUT /api/webCommerce/update
func (h *StorefrontHandler) Update(c *gin.Context) {
	commerce := currentCommerce(c)

	var req StorefrontUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	web, err := h.storefrontService.Update(commerce.CIF, service.StorefrontUpdateInput{
		City:     req.City,
		Activity: req.Activity,
		Title:    req.Title,
		Summary:  req.Summary,
		Text:     req.Text,
	})
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, service.ErrStorefrontNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, web)
}

// ArchiveOrDelete archives (soft) or deletes (hard) the authenticated
// commerce's storefront depending on the action query parameter.
// DELETE /api/webCommerce/:commerceCIF?action=archive|delete
func (h *StorefrontHandler) ArchiveOrDelete(c *gin.Context) {
	commerce := currentCommerce(c)
	action := c.Query("action")

	if err := h.storefrontService.ArchiveOrDelete(commerce.CIF, action); err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, service.ErrStorefrontNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	if action == service.ActionArchive {
		c.JSON(http.StatusOK, gin.H{"message": "WebCommerce archived"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "WebCommerce deleted"})
}

// UploadImage stores the multipart "image" file under the upload dir and
// appends its public path to the storefront's image list.
// PATCH /api/webCommerce/upload/:commerceCIF
func (h *StorefrontHandler) UploadImage(c *gin.Context) {
	commerce := currentCommerce(c)

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Image file is required",
		})
		return
	}

	// Store under a fresh name so uploads can never collide or traverse
	filename := uuid.New().String() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.uploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		logger.Log.Error("Failed to store uploaded image",
			zap.String("cif", commerce.CIF),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to store image",
		})
		return
	}

	imageURL := path.Join("/storage", filename)

	web, err := h.storefrontService.AttachImage(commerce.CIF, imageURL)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, service.ErrStorefrontNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Image uploaded successfully",
		"webCommerce": web,
	})
}

// ListAll returns every storefront regardless of archival state.
// GET /api/webCommerce/all
func (h *StorefrontHandler) ListAll(c *gin.Context) {
	webs, err := h.storefrontService.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch web commerces",
		})
		return
	}

	c.JSON(http.StatusOK, webs)
}

// ListByCity returns storefronts in a city, optionally sorted by scoring.
// GET /api/webCommerce/city/:city?sortBy=scoring
func (h *StorefrontHandler) ListByCity(c *gin.Context) {
	h.list(c, c.Param("city"), "")
}

// ListByActivity returns storefronts for an activity tag.
// GET /api/webCommerce/activity/:activity?sortBy=scoring
func (h *StorefrontHandler) ListByActivity(c *gin.Context) {
	h.list(c, "", c.Param("activity"))
}

// ListByCityAndActivity combines both filters.
// GET /api/webCommerce/city/:city/activity/:activity?sortBy=scoring
func (h *StorefrontHandler) ListByCityAndActivity(c *gin.Context) {
	h.list(c, c.Param("city"), c.Param("activity"))
}

func (h *StorefrontHandler) list(c *gin.Context, city, activity string) {
	webs, err := h.storefrontService.ListBy(city, activity, c.Query("sortBy"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch web commerces",
		})
		return
	}

	c.JSON(http.StatusOK, webs)
}

// AddReview appends a user review to a storefront.
// POST /api/webCommerce/review/:commerceCIF
func (h *StorefrontHandler) AddReview(c *gin.Context) {
	cif := c.Param("commerceCIF")

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if err := h.storefrontService.AddReview(cif, req.Review, *req.Rating); err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, service.ErrStorefrontNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review added",
	})
}
