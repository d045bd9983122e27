package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/models"
)

// RubricRepository exposes read-only access to rubric configuration.
// Rubrics are authored outside this service.
type RubricRepository interface {
	GetAssessment(ctx context.Context, id uint) (models.Assessment, error)
	GetDomains(ctx context.Context, assessmentID uint) ([]models.AssessmentDomain, error)
	GetQuestions(ctx context.Context, domainID uint) ([]models.AssessmentQuestion, error)
}

type rubricRepository struct {
	db *gorm.DB
}

// NewRubricRepository instantiates the repository.
func NewRubricRepository(db *gorm.DB) RubricRepository {
	return &rubricRepository{db: db}
}

func (r *rubricRepository) GetAssessment(ctx context.Context, id uint) (models.Assessment, error) {
	var assessment models.Assessment
	if err := r.db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		return models.Assessment{}, err
	}

	return assessment, nil
}

func (r *rubricRepository) GetDomains(ctx context.Context, assessmentID uint) ([]models.AssessmentDomain, error) {
	var domains []models.AssessmentDomain
	if err := r.db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("order_index ASC, id ASC").
		Find(&domains).Error; err != nil {
		return nil, err
	}

	return domains, nil
}

func (r *rubricRepository) GetQuestions(ctx context.Context, domainID uint) ([]models.AssessmentQuestion, error) {
	var questions []models.AssessmentQuestion
	if err := r.db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Order("order_index ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}
