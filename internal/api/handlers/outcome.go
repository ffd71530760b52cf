package handlers

import (
	"net/http"
	"strconv"

	"shopopti/internal/api/middleware"
	"shopopti/internal/database"
	"shopopti/internal/logger"
	"shopopti/internal/models"

	"github.com/gin-gonic/gin"
)

// OutcomeHandler serves the append-only import/export audit trail.
type OutcomeHandler struct {
	db     *database.Database
	logger *logger.Logger
}

func NewOutcomeHandler(db *database.Database, logger *logger.Logger) *OutcomeHandler {
	return &OutcomeHandler{
		db:     db,
		logger: logger,
	}
}

func (h *OutcomeHandler) List(c *gin.Context) {
	var outcomes []models.ImportOutcome

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset := (page - 1) * limit

	// Filters
	supplierID := c.Query("supplier_id")
	status := c.Query("status")

	query := h.db.DB.Model(&models.ImportOutcome{}).Where("user_id = ?", middleware.UserID(c))

	if supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&outcomes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch outcomes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": outcomes,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// Stats aggregates outcomes by supplier and status.
func (h *OutcomeHandler) Stats(c *gin.Context) {
	stats, err := h.db.OutcomeStats(middleware.UserID(c))
	if err != nil {
		h.logger.Error("outcome stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute outcome stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
