package importer

import (
	"context"

	"shopopti/internal/models"

	"gorm.io/gorm"
)

// GormStore backs the orchestrator with the application database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) InsertCatalogProduct(ctx context.Context, product *models.CatalogProduct) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *GormStore) InsertOutcome(ctx context.Context, outcome *models.ImportOutcome) error {
	return s.db.WithContext(ctx).Create(outcome).Error
}
