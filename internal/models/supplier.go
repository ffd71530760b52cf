package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupplierConnection is a user's configured link to one external
// dropshipping marketplace. Credentials are opaque to everything except
// the matching provider adapter.
type SupplierConnection struct {
	ID         string         `json:"id" gorm:"type:uuid;primary_key"`
	UserID     string         `json:"user_id" gorm:"not null;index"`
	Name       string         `json:"name" gorm:"not null"`
	Provider   ProviderKind   `json:"provider" gorm:"not null"`
	APIKey     string         `json:"api_key" gorm:"not null"`
	APISecret  string         `json:"api_secret"`
	BaseURL    string         `json:"base_url"`
	Status     SupplierStatus `json:"status"`
	LastSynced *time.Time     `json:"last_synced"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (SupplierConnection) TableName() string {
	return "supplier_connections"
}

// ProviderKind is a closed set. Adding a provider means adding a
// constant here and a case to dispatch.ForKind.
type ProviderKind string

const (
	ProviderBigBuy    ProviderKind = "bigbuy"
	ProviderEPROLO    ProviderKind = "eprolo"
	ProviderCdiscount ProviderKind = "cdiscount"
	ProviderAutoDS    ProviderKind = "autods"
)

func (k ProviderKind) Valid() bool {
	switch k {
	case ProviderBigBuy, ProviderEPROLO, ProviderCdiscount, ProviderAutoDS:
		return true
	}
	return false
}

type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
	SupplierStatusError    SupplierStatus = "error"
)

func (s *SupplierConnection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
