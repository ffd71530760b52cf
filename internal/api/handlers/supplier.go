package handlers

import (
	"net/http"

	"shopopti/internal/api/middleware"
	"shopopti/internal/dispatch"
	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SupplierHandler is the supplier directory: CRUD over configured
// marketplace connections. Creation probes connectivity first and
// writes no row when the probe fails.
type SupplierHandler struct {
	db       *gorm.DB
	registry *dispatch.Registry
	logger   *logger.Logger
}

func NewSupplierHandler(db *gorm.DB, registry *dispatch.Registry, logger *logger.Logger) *SupplierHandler {
	return &SupplierHandler{
		db:       db,
		registry: registry,
		logger:   logger,
	}
}

func (h *SupplierHandler) List(c *gin.Context) {
	var suppliers []models.SupplierConnection

	if err := h.db.Where("user_id = ?", middleware.UserID(c)).Find(&suppliers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suppliers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": suppliers})
}

func (h *SupplierHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var supplier models.SupplierConnection
	if err := h.db.First(&supplier, "id = ? AND user_id = ?", id, middleware.UserID(c)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch supplier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": supplier})
}

type supplierRequest struct {
	Name      string              `json:"name" binding:"required"`
	Provider  models.ProviderKind `json:"provider" binding:"required"`
	APIKey    string              `json:"api_key" binding:"required"`
	APISecret string              `json:"api_secret"`
	BaseURL   string              `json:"base_url"`
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.Provider.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider not supported"})
		return
	}

	supplier := models.SupplierConnection{
		UserID:    middleware.UserID(c),
		Name:      req.Name,
		Provider:  req.Provider,
		APIKey:    req.APIKey,
		APISecret: req.APISecret,
		BaseURL:   req.BaseURL,
		Status:    models.SupplierStatusActive,
	}

	// Default base URL must be in place before the probe
	if supplier.BaseURL == "" {
		supplier.BaseURL = providers.DefaultBaseURL(req.Provider)
	}

	adapter, err := h.registry.ForKind(req.Provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider not supported"})
		return
	}

	probe := adapter.TestConnection(c.Request.Context(), &supplier)
	if !probe.Success {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": probe.Message})
		return
	}

	if err := h.db.Create(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": supplier})
}

func (h *SupplierHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var supplier models.SupplierConnection
	if err := h.db.First(&supplier, "id = ? AND user_id = ?", id, middleware.UserID(c)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch supplier"})
		return
	}

	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Provider != supplier.Provider {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider kind cannot be changed"})
		return
	}

	supplier.Name = req.Name
	supplier.APIKey = req.APIKey
	supplier.APISecret = req.APISecret
	supplier.BaseURL = req.BaseURL
	if supplier.BaseURL == "" {
		supplier.BaseURL = providers.DefaultBaseURL(supplier.Provider)
	}

	// Re-saving credentials is how an errored connection recovers
	adapter, err := h.registry.ForKind(supplier.Provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider not supported"})
		return
	}
	probe := adapter.TestConnection(c.Request.Context(), &supplier)
	if probe.Success {
		supplier.Status = models.SupplierStatusActive
	} else {
		supplier.Status = models.SupplierStatusError
	}

	if err := h.db.Save(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": supplier, "probe": probe})
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	// Outcome rows referencing this supplier stay as history
	if err := h.db.Delete(&models.SupplierConnection{}, "id = ? AND user_id = ?", id, middleware.UserID(c)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete supplier"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// Test re-probes an existing connection and records the result on its
// status.
func (h *SupplierHandler) Test(c *gin.Context) {
	id := c.Param("id")

	var supplier models.SupplierConnection
	if err := h.db.First(&supplier, "id = ? AND user_id = ?", id, middleware.UserID(c)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch supplier"})
		return
	}

	adapter, err := h.registry.ForKind(supplier.Provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider not supported"})
		return
	}

	probe := adapter.TestConnection(c.Request.Context(), &supplier)
	if probe.Success {
		supplier.Status = models.SupplierStatusActive
	} else {
		supplier.Status = models.SupplierStatusError
	}

	if err := h.db.Save(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": probe})
}
