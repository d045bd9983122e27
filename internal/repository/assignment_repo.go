package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/models"
)

// AssignmentRepository defines data operations for assignments.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	GetByProgressAndType(ctx context.Context, progressID, typeID uint) (models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	TransitionStatus(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Assignment{}).
		Preload("AssignmentType").
		Preload("ModuleProgress").
		Preload("ModuleProgress.Module")
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.baseQuery(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) GetByProgressAndType(ctx context.Context, progressID, typeID uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.baseQuery(ctx).
		Where("module_progress_id = ?", progressID).
		Where("assignment_type_id = ?", typeID).
		Order("created_at DESC").
		First(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// TransitionStatus applies a conditional status update. The WHERE clause on
// the expected current status is what makes grading guards safe under
// concurrent requests: the transition happens atomically or not at all, and
// a false return tells the caller the precondition no longer held.
func (r *assignmentRepository) TransitionStatus(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": to}
	for column, value := range updates {
		values[column] = value
	}

	result := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
