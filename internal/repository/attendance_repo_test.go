package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

func TestAttendanceRepositoryUpsertAndFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAttendanceRepository(db)
	subjects := seedSubjects(t, db, "CS101")
	student := seedStudent(t, db, "ST2021001", "Raahul Kumar", "Computer Science")

	monday := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	require.NoError(t, repo.Upsert(context.Background(), []models.Attendance{
		{StudentID: student.ID, SubjectID: subjects[0].ID, Date: monday, Status: "absent"},
		{StudentID: student.ID, SubjectID: subjects[0].ID, Date: tuesday, Status: "present"},
	}))
	require.NoError(t, repo.Upsert(context.Background(), []models.Attendance{
		{StudentID: student.ID, SubjectID: subjects[0].ID, Date: monday, Status: "present"},
	}))

	rows, err := repo.List(context.Background(), AttendanceFilter{StudentID: student.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "present", rows[0].Status, "second write replaces the first")

	rows, err = repo.List(context.Background(), AttendanceFilter{SubjectID: subjects[0].ID, Date: &tuesday})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Date.Equal(tuesday))
}
