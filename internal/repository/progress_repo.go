package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/models"
)

// ModuleProgressRepository reads module progress records. This service never
// mutates them.
type ModuleProgressRepository interface {
	GetByID(ctx context.Context, id uint) (models.ModuleProgress, error)
}

type moduleProgressRepository struct {
	db *gorm.DB
}

// NewModuleProgressRepository instantiates the repository.
func NewModuleProgressRepository(db *gorm.DB) ModuleProgressRepository {
	return &moduleProgressRepository{db: db}
}

func (r *moduleProgressRepository) GetByID(ctx context.Context, id uint) (models.ModuleProgress, error) {
	var progress models.ModuleProgress
	if err := r.db.WithContext(ctx).
		Preload("Module").
		First(&progress, id).Error; err != nil {
		return models.ModuleProgress{}, err
	}

	return progress, nil
}
