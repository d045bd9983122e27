package service

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/dto"
	"github.com/noah-isme/praxis-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type fakeAssignmentRepo struct {
	assignments map[uint]*models.Assignment
	nextID      uint
}

func newFakeAssignmentRepo(seed ...models.Assignment) *fakeAssignmentRepo {
	repo := &fakeAssignmentRepo{assignments: make(map[uint]*models.Assignment)}
	for i := range seed {
		assignment := seed[i]
		if assignment.ID == 0 {
			repo.nextID++
			assignment.ID = repo.nextID
		} else if assignment.ID > repo.nextID {
			repo.nextID = assignment.ID
		}
		repo.assignments[assignment.ID] = &assignment
	}

	return repo
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id uint) (models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}

	return *assignment, nil
}

func (f *fakeAssignmentRepo) GetByProgressAndType(_ context.Context, progressID, typeID uint) (models.Assignment, error) {
	for _, assignment := range f.assignments {
		if assignment.ModuleProgressID == progressID && assignment.AssignmentTypeID == typeID {
			return *assignment, nil
		}
	}

	return models.Assignment{}, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	f.nextID++
	assignment.ID = f.nextID
	stored := *assignment
	f.assignments[assignment.ID] = &stored

	return nil
}

func (f *fakeAssignmentRepo) Update(_ context.Context, assignment *models.Assignment) error {
	stored := *assignment
	f.assignments[assignment.ID] = &stored

	return nil
}

func (f *fakeAssignmentRepo) TransitionStatus(_ context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error) {
	assignment, ok := f.assignments[id]
	if !ok || assignment.Status != from {
		return false, nil
	}

	assignment.Status = to
	for column, value := range updates {
		switch column {
		case "responses":
			assignment.Responses = value.(datatypes.JSONMap)
		case "overall_comments":
			comments := value.(string)
			assignment.OverallComments = &comments
		case "is_private":
			assignment.IsPrivate = value.(bool)
		case "scoring_snapshot_id":
			snapshotID := value.(uint)
			assignment.ScoringSnapshotID = &snapshotID
		case "scored_by":
			scoredBy := value.(uint)
			assignment.ScoredBy = &scoredBy
		case "scored_at":
			scoredAt := value.(time.Time)
			assignment.ScoredAt = &scoredAt
		case "overall_score":
			score := value.(float64)
			assignment.OverallScore = &score
		case "instructor_notes":
			notes := value.(string)
			assignment.InstructorNotes = &notes
		}
	}

	return true, nil
}

type fakeSnapshotRepo struct {
	snapshots map[uint]*models.CapabilitySnapshot
	nextID    uint
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[uint]*models.CapabilitySnapshot)}
}

func (f *fakeSnapshotRepo) GetByID(_ context.Context, id uint) (models.CapabilitySnapshot, error) {
	snapshot, ok := f.snapshots[id]
	if !ok {
		return models.CapabilitySnapshot{}, gorm.ErrRecordNotFound
	}

	return *snapshot, nil
}

func (f *fakeSnapshotRepo) Create(_ context.Context, snapshot *models.CapabilitySnapshot) error {
	f.nextID++
	snapshot.ID = f.nextID
	stored := *snapshot
	f.snapshots[snapshot.ID] = &stored

	return nil
}

func (f *fakeSnapshotRepo) Update(_ context.Context, snapshot *models.CapabilitySnapshot) error {
	stored, ok := f.snapshots[snapshot.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	stored.Status = snapshot.Status
	stored.EvaluatorID = snapshot.EvaluatorID
	stored.CompletedAt = snapshot.CompletedAt

	return nil
}

func (f *fakeSnapshotRepo) UpsertRatings(_ context.Context, snapshotID uint, ratings map[uint]int) error {
	snapshot, ok := f.snapshots[snapshotID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	for questionID, rating := range ratings {
		updated := false
		for i := range snapshot.Ratings {
			if snapshot.Ratings[i].QuestionID == questionID {
				snapshot.Ratings[i].Rating = rating
				updated = true
				break
			}
		}
		if !updated {
			snapshot.Ratings = append(snapshot.Ratings, models.SnapshotRating{
				SnapshotID: snapshotID,
				QuestionID: questionID,
				Rating:     rating,
			})
		}
	}

	return nil
}

func (f *fakeSnapshotRepo) UpsertQuestionNotes(_ context.Context, snapshotID uint, notes map[uint]string) error {
	snapshot, ok := f.snapshots[snapshotID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	for questionID, note := range notes {
		updated := false
		for i := range snapshot.QuestionNotes {
			if snapshot.QuestionNotes[i].QuestionID == questionID {
				snapshot.QuestionNotes[i].Note = note
				updated = true
				break
			}
		}
		if !updated {
			snapshot.QuestionNotes = append(snapshot.QuestionNotes, models.SnapshotQuestionNote{
				SnapshotID: snapshotID,
				QuestionID: questionID,
				Note:       note,
			})
		}
	}

	return nil
}

func (f *fakeSnapshotRepo) UpsertDomainNotes(_ context.Context, snapshotID uint, notes map[uint]string) error {
	snapshot, ok := f.snapshots[snapshotID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	for domainID, note := range notes {
		updated := false
		for i := range snapshot.DomainNotes {
			if snapshot.DomainNotes[i].DomainID == domainID {
				snapshot.DomainNotes[i].Note = note
				updated = true
				break
			}
		}
		if !updated {
			snapshot.DomainNotes = append(snapshot.DomainNotes, models.SnapshotDomainNote{
				SnapshotID: snapshotID,
				DomainID:   domainID,
				Note:       note,
			})
		}
	}

	return nil
}

type fakeProgressRepo struct {
	records map[uint]models.ModuleProgress
}

func (f *fakeProgressRepo) GetByID(_ context.Context, id uint) (models.ModuleProgress, error) {
	progress, ok := f.records[id]
	if !ok {
		return models.ModuleProgress{}, gorm.ErrRecordNotFound
	}

	return progress, nil
}

type fakeTypeRepo struct {
	types map[uint]models.AssignmentType
}

func (f *fakeTypeRepo) GetByID(_ context.Context, id uint) (models.AssignmentType, error) {
	assignmentType, ok := f.types[id]
	if !ok {
		return models.AssignmentType{}, gorm.ErrRecordNotFound
	}

	return assignmentType, nil
}

type fakeStaffRepo struct {
	moduleStaff  []uint
	programStaff []uint
}

func (f *fakeStaffRepo) ListModuleStaffIDs(_ context.Context, _ uint) ([]uint, error) {
	return f.moduleStaff, nil
}

func (f *fakeStaffRepo) ListProgramStaffIDs(_ context.Context, _ uint) ([]uint, error) {
	return f.programStaff, nil
}

type recordingGateway struct {
	events []NotificationEvent
}

func (g *recordingGateway) Notify(_ context.Context, event NotificationEvent) {
	g.events = append(g.events, event)
}

func (g *recordingGateway) List(context.Context, uint, int, int) ([]dto.NotificationResponse, error) {
	return nil, nil
}

func (g *recordingGateway) MarkRead(context.Context, uint, uint) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

type staticRubricProvider struct {
	assessment models.Assessment
	err        error
}

func (p *staticRubricProvider) GetRubric(context.Context, uint) (models.Assessment, error) {
	if p.err != nil {
		return models.Assessment{}, p.err
	}

	return p.assessment, nil
}
