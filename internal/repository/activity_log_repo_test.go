package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

func TestActivityLogRepositoryFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)

	studentID := uint(4)
	require.NoError(t, repo.Create(context.Background(), &models.ActivityLog{ActorID: 1, ActorRole: models.RoleStaff, Action: "student.created", EntityType: "student", EntityID: &studentID}))
	require.NoError(t, repo.Create(context.Background(), &models.ActivityLog{ActorID: 1, ActorRole: models.RoleStaff, Action: "marks.recorded", EntityType: "subject", Metadata: datatypes.JSONMap{"entries": 3}}))

	entries, total, err := repo.List(context.Background(), ActivityLogFilter{EntityType: "student", EntityID: &studentID})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "student.created", entries[0].Action)

	entries, total, err = repo.List(context.Background(), ActivityLogFilter{PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, entries, 1)
	require.Equal(t, "marks.recorded", entries[0].Action)
}
