package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/models"
)

// StaffRepository resolves instructor/coach attachments for modules and
// programs. Used to build notification recipient sets.
type StaffRepository interface {
	ListModuleStaffIDs(ctx context.Context, moduleID uint) ([]uint, error)
	ListProgramStaffIDs(ctx context.Context, programID uint) ([]uint, error)
}

type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) ListModuleStaffIDs(ctx context.Context, moduleID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.ModuleStaff{}).
		Where("module_id = ?", moduleID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *staffRepository) ListProgramStaffIDs(ctx context.Context, programID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.ProgramStaff{}).
		Where("program_id = ?", programID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}
