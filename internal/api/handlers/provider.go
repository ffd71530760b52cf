package handlers

import (
	"errors"
	"net/http"

	"shopopti/internal/api/middleware"
	"shopopti/internal/dispatch"
	"shopopti/internal/events"
	"shopopti/internal/importer"
	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProviderHandler is the single boundary entry point for provider
// actions: it resolves the supplier connection, forwards through the
// dispatcher and translates dispatch errors to HTTP statuses.
type ProviderHandler struct {
	db         *gorm.DB
	dispatcher *dispatch.Dispatcher
	publisher  *events.Publisher
	logger     *logger.Logger
}

func NewProviderHandler(db *gorm.DB, dispatcher *dispatch.Dispatcher, publisher *events.Publisher, logger *logger.Logger) *ProviderHandler {
	return &ProviderHandler{
		db:         db,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

type providerRequest struct {
	SupplierID string                 `json:"supplier_id" binding:"required"`
	Filters    providers.ListFilters  `json:"filters"`
	ProductIDs []string               `json:"product_ids"`
}

// Dispatch handles POST /providers/:provider/:action.
func (h *ProviderHandler) Dispatch(c *gin.Context) {
	kind := models.ProviderKind(c.Param("provider"))
	action := dispatch.Action(c.Param("action"))

	var req providerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)

	var supplier models.SupplierConnection
	if err := h.db.First(&supplier, "id = ? AND user_id = ?", req.SupplierID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch supplier"})
		return
	}

	if supplier.Provider != kind {
		c.JSON(http.StatusBadRequest, gin.H{"error": "supplier does not belong to this provider"})
		return
	}

	// Caller identity always comes from the session, never the body
	result, err := h.dispatcher.Dispatch(c.Request.Context(), dispatch.Request{
		Kind:       kind,
		Action:     action,
		Supplier:   &supplier,
		Filters:    req.Filters,
		ProductIDs: req.ProductIDs,
		UserID:     userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		case errors.Is(err, dispatch.ErrUnknownProvider), errors.Is(err, dispatch.ErrUnsupportedAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("dispatch %s/%s failed: %v", kind, action, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	if action == dispatch.ActionImport {
		if batch, ok := result.(importer.Result); ok && h.publisher != nil {
			h.publisher.Publish(c.Request.Context(), events.Event{
				Type:       events.TypeImportCompleted,
				SupplierID: supplier.ID,
				UserID:     userID,
				Imported:   batch.Imported,
				Failed:     batch.Failed,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
