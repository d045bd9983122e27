package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/models"
)

// AssignmentTypeRepository reads assignment type definitions. Type authoring
// is platform configuration and happens outside this service.
type AssignmentTypeRepository interface {
	GetByID(ctx context.Context, id uint) (models.AssignmentType, error)
}

type assignmentTypeRepository struct {
	db *gorm.DB
}

// NewAssignmentTypeRepository instantiates the repository.
func NewAssignmentTypeRepository(db *gorm.DB) AssignmentTypeRepository {
	return &assignmentTypeRepository{db: db}
}

func (r *assignmentTypeRepository) GetByID(ctx context.Context, id uint) (models.AssignmentType, error) {
	var assignmentType models.AssignmentType
	if err := r.db.WithContext(ctx).First(&assignmentType, id).Error; err != nil {
		return models.AssignmentType{}, err
	}

	return assignmentType, nil
}
