package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/praxis-api/internal/models"
)

// SnapshotRepository defines data operations for capability snapshots and
// their rating/note rows.
type SnapshotRepository interface {
	GetByID(ctx context.Context, id uint) (models.CapabilitySnapshot, error)
	Create(ctx context.Context, snapshot *models.CapabilitySnapshot) error
	Update(ctx context.Context, snapshot *models.CapabilitySnapshot) error
	UpsertRatings(ctx context.Context, snapshotID uint, ratings map[uint]int) error
	UpsertQuestionNotes(ctx context.Context, snapshotID uint, notes map[uint]string) error
	UpsertDomainNotes(ctx context.Context, snapshotID uint, notes map[uint]string) error
}

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository instantiates the repository.
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) GetByID(ctx context.Context, id uint) (models.CapabilitySnapshot, error) {
	var snapshot models.CapabilitySnapshot
	if err := r.db.WithContext(ctx).
		Preload("Ratings").
		Preload("QuestionNotes").
		Preload("DomainNotes").
		First(&snapshot, id).Error; err != nil {
		return models.CapabilitySnapshot{}, err
	}

	return snapshot, nil
}

func (r *snapshotRepository) Create(ctx context.Context, snapshot *models.CapabilitySnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *snapshotRepository) Update(ctx context.Context, snapshot *models.CapabilitySnapshot) error {
	return r.db.WithContext(ctx).
		Model(&models.CapabilitySnapshot{}).
		Where("id = ?", snapshot.ID).
		Updates(map[string]interface{}{
			"status":       snapshot.Status,
			"evaluator_id": snapshot.EvaluatorID,
			"completed_at": snapshot.CompletedAt,
		}).Error
}

// UpsertRatings writes the given question ratings, updating in place on the
// (snapshot_id, question_id) unique index. Last writer wins; no history.
func (r *snapshotRepository) UpsertRatings(ctx context.Context, snapshotID uint, ratings map[uint]int) error {
	if len(ratings) == 0 {
		return nil
	}

	rows := make([]models.SnapshotRating, 0, len(ratings))
	for _, questionID := range sortedKeys(ratings) {
		rows = append(rows, models.SnapshotRating{
			SnapshotID: snapshotID,
			QuestionID: questionID,
			Rating:     ratings[questionID],
		})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "snapshot_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *snapshotRepository) UpsertQuestionNotes(ctx context.Context, snapshotID uint, notes map[uint]string) error {
	if len(notes) == 0 {
		return nil
	}

	rows := make([]models.SnapshotQuestionNote, 0, len(notes))
	for _, questionID := range sortedKeys(notes) {
		rows = append(rows, models.SnapshotQuestionNote{
			SnapshotID: snapshotID,
			QuestionID: questionID,
			Note:       notes[questionID],
		})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "snapshot_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"note", "updated_at"}),
		}).
		Create(&rows).Error
}

func (r *snapshotRepository) UpsertDomainNotes(ctx context.Context, snapshotID uint, notes map[uint]string) error {
	if len(notes) == 0 {
		return nil
	}

	rows := make([]models.SnapshotDomainNote, 0, len(notes))
	for _, domainID := range sortedKeys(notes) {
		rows = append(rows, models.SnapshotDomainNote{
			SnapshotID: snapshotID,
			DomainID:   domainID,
			Note:       notes[domainID],
		})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "snapshot_id"}, {Name: "domain_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"note", "updated_at"}),
		}).
		Create(&rows).Error
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}
