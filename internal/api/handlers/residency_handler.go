package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/models"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/services"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/storage"
	"github.com/nimavisker1360/RealState-Casecentral-sub000/internal/utils"
)

// ImageEnqueuer schedules background processing of an uploaded image.
type ImageEnqueuer interface {
	EnqueueImageProcess(ctx context.Context, s3Key string, residencyID utils.SixID) error
}

// ResidencyHandler handles the residency CRUD routes.
type ResidencyHandler struct {
	residencyService services.IResidencyService
	userService      services.IUserService
	storageService   storage.IS3Storage
	imageQueue       ImageEnqueuer
}

func NewResidencyHandler(
	residencyService services.IResidencyService,
	userService services.IUserService,
	storageService storage.IS3Storage,
	imageQueue ImageEnqueuer,
) *ResidencyHandler {
	return &ResidencyHandler{
		residencyService: residencyService,
		userService:      userService,
		storageService:   storageService,
		imageQueue:       imageQueue,
	}
}

type createResidencyRequest struct {
	Title        string                 `json:"title" binding:"required"`
	Description  string                 `json:"description"`
	Price        float64                `json:"price" binding:"required,gt=0"`
	Address      string                 `json:"address" binding:"required"`
	City         string                 `json:"city" binding:"required"`
	Country      string                 `json:"country" binding:"required"`
	PropertyType models.PropertyType    `json:"property_type" binding:"required,oneof=sale rent"`
	Category     string                 `json:"category"`
	Facilities   map[string]interface{} `json:"facilities"`
}

// Create handles POST /v1/residency.
func (h *ResidencyHandler) Create(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}

	var req createResidencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	owner, err := h.userService.FindByEmail(c.Request.Context(), email)
	if err != nil {
		respondServiceError(c, err, "Failed to resolve owner")
		return
	}

	residency, err := h.residencyService.Create(c.Request.Context(), &models.Residency{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		PropertyType: req.PropertyType,
		Category:     req.Category,
		Facilities:   req.Facilities,
		OwnerID:      owner.ID,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create residency")
		return
	}
	c.JSON(http.StatusCreated, residency)
}

// GetByID handles GET /v1/residency/:id.
func (h *ResidencyHandler) GetByID(c *gin.Context) {
	residencyID, ok := residencyIDParam(c)
	if !ok {
		return
	}

	residency, err := h.residencyService.FindByID(c.Request.Context(), residencyID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve residency")
		return
	}
	c.JSON(http.StatusOK, residency)
}

// List handles GET /v1/residency.
func (h *ResidencyHandler) List(c *gin.Context) {
	residencies, err := h.residencyService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to list residencies")
		return
	}
	if residencies == nil {
		residencies = []models.Residency{}
	}
	c.JSON(http.StatusOK, gin.H{"data": residencies})
}

type updateResidencyRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Price       *float64               `json:"price"`
	Category    *string                `json:"category"`
	Facilities  map[string]interface{} `json:"facilities"`
}

// Update handles PUT /v1/residency/:id. Only the owner may update.
func (h *ResidencyHandler) Update(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	residencyID, ok := residencyIDParam(c)
	if !ok {
		return
	}

	var req updateResidencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Facilities != nil {
		updates["facilities"] = req.Facilities
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	owner, err := h.userService.FindByEmail(c.Request.Context(), email)
	if err != nil {
		respondServiceError(c, err, "Failed to resolve owner")
		return
	}

	residency, err := h.residencyService.Update(c.Request.Context(), residencyID, owner.ID, updates)
	if err != nil {
		respondServiceError(c, err, "Failed to update residency")
		return
	}
	c.JSON(http.StatusOK, residency)
}

// Delete handles DELETE /v1/residency/:id. Embedded references in user
// documents are removed before the residency itself.
func (h *ResidencyHandler) Delete(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	residencyID, ok := residencyIDParam(c)
	if !ok {
		return
	}

	if err := h.residencyService.Delete(c.Request.Context(), residencyID, email); err != nil {
		respondServiceError(c, err, "Failed to delete residency")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Residency deleted successfully"})
}

type imageUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// RequestImageUpload handles POST /v1/residency/:id/images. It returns a
// pre-signed PUT URL and queues normalization of the object the client is
// about to upload.
func (h *ResidencyHandler) RequestImageUpload(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		return
	}
	residencyID, ok := residencyIDParam(c)
	if !ok {
		return
	}

	var req imageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	owner, err := h.userService.FindByEmail(c.Request.Context(), email)
	if err != nil {
		respondServiceError(c, err, "Failed to resolve owner")
		return
	}

	residency, err := h.residencyService.FindByID(c.Request.Context(), residencyID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve residency")
		return
	}
	if residency.OwnerID != owner.ID && !owner.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner may upload images"})
		return
	}

	url, key, err := h.storageService.GeneratePresignedPutURL(
		c.Request.Context(), owner.ID.String(), residencyID.String(), req.Filename, req.ContentType)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload"})
		return
	}

	if err := h.imageQueue.EnqueueImageProcess(c.Request.Context(), key, residencyID); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue image processing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload_url": url, "s3_key": key})
}
