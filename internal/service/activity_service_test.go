package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
)

type memoryActivityRepo struct {
	entries    []models.ActivityLog
	lastFilter repository.ActivityLogFilter
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	m.lastFilter = filter
	return append([]models.ActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}

func TestActivityServiceRecordMasksSensitiveMetadata(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testLogger())

	entry, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    1,
		ActorRole:  "Staff",
		Action:     "Student.Created",
		EntityType: "student",
		EntityID:   ptrUint(5),
		Metadata: map[string]interface{}{
			"email":            "student@example.com",
			"initial_password": "Changeme@123",
			"department":       "Civil",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "***", entry.Metadata["email"])
	require.Equal(t, "***", entry.Metadata["initial_password"])
	require.Equal(t, "Civil", entry.Metadata["department"])
	require.Equal(t, "student.created", entry.Action)
	require.Equal(t, "staff", entry.ActorRole)
}

func TestActivityServiceRecordRequiresAction(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{EntityType: "student"})
	require.Error(t, err)
}

func TestActivityServiceListPaginates(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testLogger())
	for i := 0; i < 3; i++ {
		_, err := svc.Record(context.Background(), ActivityEntry{Action: "marks.recorded", EntityType: "subject"})
		require.NoError(t, err)
	}

	result, err := svc.List(context.Background(), dto.ActivityListRequest{Page: 1, PageSize: 2, ActorID: 4})
	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	require.Equal(t, 2, result.Pagination.TotalPages)
	require.NotNil(t, repo.lastFilter.ActorID)
	require.Equal(t, uint(4), *repo.lastFilter.ActorID)
	require.Equal(t, "system", result.Items[0].ActorRole)
}
