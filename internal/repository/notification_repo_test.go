package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/praxis-api/internal/models"
)

func TestNotificationRepositoryListByUser(t *testing.T) {
	db := setupTestDB(t, &models.Notification{})
	repo := NewNotificationRepository(db)

	for i := 0; i < 3; i++ {
		notification := models.Notification{
			UserID:    7,
			Type:      models.NotificationTypeAssignmentGraded,
			Message:   "msg",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(context.Background(), &notification))
	}
	other := models.Notification{UserID: 8, Type: models.NotificationTypeAssignmentSubmitted, Message: "other"}
	require.NoError(t, repo.Create(context.Background(), &other))

	notifications, err := repo.ListByUser(context.Background(), 7, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	for _, notification := range notifications {
		require.Equal(t, uint(7), notification.UserID)
	}

	paged, err := repo.ListByUser(context.Background(), 7, 2, 2)
	require.NoError(t, err)
	require.Len(t, paged, 1)
}

func TestNotificationRepositoryMarkRead(t *testing.T) {
	db := setupTestDB(t, &models.Notification{})
	repo := NewNotificationRepository(db)

	notification := models.Notification{UserID: 7, Type: models.NotificationTypeAssignmentGraded, Message: "msg"}
	require.NoError(t, repo.Create(context.Background(), &notification))

	read, err := repo.MarkRead(context.Background(), notification.ID, 7)
	require.NoError(t, err)
	require.True(t, read.Read)

	// Idempotent on repeat.
	again, err := repo.MarkRead(context.Background(), notification.ID, 7)
	require.NoError(t, err)
	require.True(t, again.Read)

	// Scoped to the owning user.
	_, err = repo.MarkRead(context.Background(), notification.ID, 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStaffRepositoryListIDs(t *testing.T) {
	db := setupTestDB(t, &models.ModuleStaff{}, &models.ProgramStaff{})
	repo := NewStaffRepository(db)

	require.NoError(t, db.Create(&models.ModuleStaff{ModuleID: 30, UserID: 51, Role: models.StaffRoleCoach}).Error)
	require.NoError(t, db.Create(&models.ModuleStaff{ModuleID: 30, UserID: 50, Role: models.StaffRoleInstructor}).Error)
	require.NoError(t, db.Create(&models.ModuleStaff{ModuleID: 31, UserID: 60, Role: models.StaffRoleInstructor}).Error)
	require.NoError(t, db.Create(&models.ProgramStaff{ProgramID: 40, UserID: 52, Role: models.StaffRoleCoach}).Error)

	moduleIDs, err := repo.ListModuleStaffIDs(context.Background(), 30)
	require.NoError(t, err)
	require.Equal(t, []uint{50, 51}, moduleIDs)

	programIDs, err := repo.ListProgramStaffIDs(context.Background(), 40)
	require.NoError(t, err)
	require.Equal(t, []uint{52}, programIDs)
}
