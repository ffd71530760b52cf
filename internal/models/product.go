package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommonProduct is the normalized shape every provider adapter emits.
// Provider, ExternalID, Name, Price, Stock, Images and SupplierID are
// always populated; the rest is provider-dependent.
type CommonProduct struct {
	ID             string          `json:"id"`
	ExternalID     string          `json:"external_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          float64         `json:"price"`
	ListPrice      *float64        `json:"list_price,omitempty"`
	Stock          int             `json:"stock"`
	Category       string          `json:"category"`
	Images         []string        `json:"images"`
	SKU            string          `json:"sku,omitempty"`
	ShippingTime   string          `json:"shipping_time,omitempty"`
	Variants       []CommonVariant `json:"variants,omitempty"`
	SupplierID     string          `json:"supplier_id"`
	Provider       ProviderKind    `json:"provider"`
}

// CommonVariant carries named attributes (e.g. Color, Size) used to
// derive storefront options on export.
type CommonVariant struct {
	ExternalID string            `json:"external_id"`
	SKU        string            `json:"sku"`
	Price      float64           `json:"price"`
	Stock      int               `json:"stock"`
	Attributes map[string]string `json:"attributes"`
}

// CommonCategory is flat for providers without hierarchy; ParentID is
// empty in that case.
type CommonCategory struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	SupplierID string `json:"supplier_id"`
}

// CatalogProduct is the application's own product record, written once
// by the import orchestrator.
type CatalogProduct struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	UserID      string    `json:"user_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	SKU         string    `json:"sku"`
	Images      []string  `json:"images" gorm:"serializer:json"`
	Published   bool      `json:"published" gorm:"default:true"`
	SupplierID  string    `json:"supplier_id" gorm:"index"`
	ExternalID  string    `json:"external_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (CatalogProduct) TableName() string {
	return "catalog_products"
}

func (p *CatalogProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
