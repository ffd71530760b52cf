package handlers

import (
	"net/http"

	"shopopti/internal/api/middleware"
	"shopopti/internal/config"
	"shopopti/internal/events"
	"shopopti/internal/exporter/shopify"
	"shopopti/internal/logger"
	"shopopti/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ExportHandler pushes products to a Shopify storefront. Items can be
// sent inline (selected straight from a provider listing, variants
// included) or referenced by catalog product id.
type ExportHandler struct {
	db        *gorm.DB
	store     shopify.OutcomeStore
	publisher *events.Publisher
	config    *config.Config
	logger    *logger.Logger
}

func NewExportHandler(db *gorm.DB, store shopify.OutcomeStore, publisher *events.Publisher, cfg *config.Config, logger *logger.Logger) *ExportHandler {
	return &ExportHandler{
		db:        db,
		store:     store,
		publisher: publisher,
		config:    cfg,
		logger:    logger,
	}
}

type exportRequest struct {
	ShopDomain  string                 `json:"shop_domain" binding:"required"`
	AccessToken string                 `json:"access_token" binding:"required"`
	Products    []models.CommonProduct `json:"products"`
	ProductIDs  []string               `json:"product_ids"`
}

func (h *ExportHandler) Shopify(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)

	items := req.Products
	for _, id := range req.ProductIDs {
		var product models.CatalogProduct
		if err := h.db.First(&product, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found: " + id})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		items = append(items, catalogToCommon(&product))
	}

	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to export"})
		return
	}

	client := shopify.NewClient(req.ShopDomain, req.AccessToken, h.config.ShopifyAPIVersion, h.logger)
	exporter := shopify.NewExporter(client, h.store, h.logger)

	result := exporter.Export(c.Request.Context(), items, userID)

	if h.publisher != nil {
		h.publisher.Publish(c.Request.Context(), events.Event{
			Type:     events.TypeExportCompleted,
			UserID:   userID,
			Imported: result.Exported,
			Failed:   result.Failed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func catalogToCommon(p *models.CatalogProduct) models.CommonProduct {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return models.CommonProduct{
		ID:          p.ID,
		ExternalID:  p.ExternalID,
		Name:        p.Title,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Images:      images,
		SKU:         p.SKU,
		SupplierID:  p.SupplierID,
	}
}
