package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/praxis-api/internal/dto"
	"github.com/noah-isme/praxis-api/internal/models"
)

// Walks the whole lifecycle through both services against shared fakes:
// draft, submit, two scoring draft saves with a rating overwrite, complete,
// and a rejected second completion.
func TestAssignmentLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	validate := validator.New(validator.WithRequiredStructEnabled())

	assignments := newFakeAssignmentRepo()
	snapshots := newFakeSnapshotRepo()
	gateway := &recordingGateway{}
	staff := &fakeStaffRepo{moduleStaff: []uint{50}, programStaff: []uint{50, 52}}

	assessmentID := uint(1)
	capstone := models.AssignmentType{
		ID:           4,
		Name:         "Capstone Review",
		AssessmentID: &assessmentID,
		Fields:       rubricType().Fields,
	}
	progress := &fakeProgressRepo{records: map[uint]models.ModuleProgress{12: progressForClient()}}
	types := &fakeTypeRepo{types: map[uint]models.AssignmentType{4: capstone}}

	clientSvc := NewAssignmentService(assignments, types, progress, staff, validate, gateway, testLogger())
	staffSvc := NewGradingService(assignments, snapshots, &staticRubricProvider{assessment: passFailAssessment()}, gateway, validate, testLogger())

	created, err := clientSvc.CreateDraft(ctx, clientCaller, dto.AssignmentCreateRequest{
		ModuleProgressID: 12,
		AssignmentTypeID: 4,
		Responses:        map[string]interface{}{"summary": "first pass"},
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusDraft, created.Status)

	// The loaded assignment carries its type and progress context in the
	// fake the same way the preloading repository would.
	stored := assignments.assignments[created.ID]
	stored.AssignmentType = capstone
	stored.ModuleProgress = progressForClient()

	submitted, err := clientSvc.Submit(ctx, clientCaller, created.ID, dto.AssignmentSubmitRequest{})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusSubmitted, submitted.Status)
	require.Len(t, gateway.events, 1)
	require.Equal(t, []uint{50, 52}, gateway.events[0].Recipients)

	_, err = staffSvc.SaveDraft(ctx, instructorCaller, created.ID, dto.ScoringSaveRequest{
		Ratings: map[uint]int{101: 2, 102: 3},
	})
	require.NoError(t, err)

	// Second draft save overwrites one rating.
	sheet, err := staffSvc.SaveDraft(ctx, instructorCaller, created.ID, dto.ScoringSaveRequest{
		Ratings: map[uint]int{101: 5},
	})
	require.NoError(t, err)
	require.Equal(t, 5, sheet.Snapshot.Ratings[101])
	require.Equal(t, 3, sheet.Snapshot.Ratings[102])
	require.Len(t, snapshots.snapshots, 1)

	completed, err := staffSvc.Complete(ctx, instructorCaller, created.ID, dto.ScoringSaveRequest{
		Ratings: map[uint]int{201: 4},
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusReviewed, completed.Assignment.Status)
	require.NotNil(t, completed.Assignment.OverallScore)
	require.InDelta(t, 4.0, *completed.Assignment.OverallScore, 1e-9, "(5+3+4)/3 = 4.0")
	require.Equal(t, models.SnapshotStatusCompleted, completed.Snapshot.Status)

	require.Len(t, gateway.events, 2)
	require.Equal(t, models.NotificationTypeAssignmentGraded, gateway.events[1].Type)
	require.Equal(t, []uint{clientCaller.ID}, gateway.events[1].Recipients)

	_, err = staffSvc.Complete(ctx, instructorCaller, created.ID, dto.ScoringSaveRequest{
		Ratings: map[uint]int{201: 1},
	})
	require.ErrorIs(t, err, ErrAlreadyReviewed)
	require.Len(t, gateway.events, 2)

	report, err := staffSvc.GetCapabilityReport(ctx, clientCaller, created.ID)
	require.NoError(t, err)
	require.NotNil(t, report.PassFail)
	require.True(t, report.PassFail.Passed, "80 percent clears the 60 percent bar")
}
