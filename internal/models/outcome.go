package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportOutcome is an append-only audit row: one per attempted product
// import or export. Never updated or deleted.
type ImportOutcome struct {
	ID               string        `json:"id" gorm:"type:uuid;primary_key"`
	UserID           string        `json:"user_id" gorm:"not null;index"`
	SupplierID       string        `json:"supplier_id" gorm:"index"`
	ExternalID       string        `json:"external_id"`
	CatalogProductID *string       `json:"catalog_product_id"`
	Status           OutcomeStatus `json:"status" gorm:"not null"`
	Detail           string        `json:"detail"`
	CreatedAt        time.Time     `json:"created_at"`
}

func (ImportOutcome) TableName() string {
	return "import_outcomes"
}

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

func (o *ImportOutcome) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
