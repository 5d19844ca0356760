package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

func TestStudentRepositoryListFiltersAndSorts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	seedStudent(t, db, "ST2021002", "Priya Sharma", "Computer Science")
	seedStudent(t, db, "ST2021001", "Raahul Kumar", "Computer Science")
	seedStudent(t, db, "ST2021003", "Amit Patel", "Information Technology")

	students, total, err := repo.List(context.Background(), StudentFilter{Search: "priya", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Priya Sharma", students[0].Name)

	students, total, err = repo.List(context.Background(), StudentFilter{Department: "Computer Science", PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, students, 1)
	require.Equal(t, "ST2021001", students[0].RegNumber, "expected registration order")

	students, _, err = repo.List(context.Background(), StudentFilter{Department: "Computer Science", Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, "ST2021002", students[0].RegNumber)
}

func TestStudentRepositoryCreateWithAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	subjects := seedSubjects(t, db, "CS101", "CS102")

	user := &models.User{Name: "Raahul Kumar", Email: "raahul@example.com", PasswordHash: "hash", Role: models.RoleStudent}
	student := &models.Student{RegNumber: "ST2021001", Name: "Raahul Kumar", Email: "raahul@example.com", Department: "Computer Science", Semester: 5}
	require.NoError(t, repo.CreateWithAccount(context.Background(), user, student, []uint{subjects[0].ID, subjects[1].ID, subjects[0].ID}))

	require.NotZero(t, student.ID)
	require.NotNil(t, student.UserID)
	require.Equal(t, user.ID, *student.UserID)

	enrolled, err := NewSubjectRepository(db).ListByStudent(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, enrolled, 2)

	found, err := repo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, student.ID, found.ID)
}

func TestStudentRepositoryCreateRollsBackOnDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	seedStudent(t, db, "ST2021001", "Raahul Kumar", "Computer Science")

	user := &models.User{Name: "Copy", Email: "copy@example.com", PasswordHash: "hash", Role: models.RoleStudent}
	student := &models.Student{RegNumber: "ST2021001", Name: "Copy", Email: "copy@example.com", Department: "Civil", Semester: 1}
	err := repo.CreateWithAccount(context.Background(), user, student, nil)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var accounts int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "copy@example.com").Count(&accounts).Error)
	require.Zero(t, accounts, "account insert must be rolled back")
}

func TestStudentRepositoryUpdateSyncsAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	student := seedStudent(t, db, "ST2021001", "Raahul Kumar", "Computer Science")

	updated, err := repo.Update(context.Background(), student.ID, map[string]interface{}{"name": "Rahul Kumar", "semester": 6})
	require.NoError(t, err)
	require.Equal(t, "Rahul Kumar", updated.Name)
	require.Equal(t, 6, updated.Semester)

	account, err := NewUserRepository(db).GetByID(context.Background(), *student.UserID)
	require.NoError(t, err)
	require.Equal(t, "Rahul Kumar", account.Name)
}

func TestStudentRepositorySoftDeleteFreesUniqueColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	student := seedStudent(t, db, "ST2021001", "Raahul Kumar", "Computer Science")

	require.NoError(t, repo.SoftDelete(context.Background(), student.ID))

	_, err := repo.GetByID(context.Background(), student.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.SoftDelete(context.Background(), student.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)

	seedStudent(t, db, "ST2021001", "Raahul Kumar", "Computer Science")
}

func TestStudentRepositoryLatestRegNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	latest, err := repo.LatestRegNumber(context.Background(), "ST2024")
	require.NoError(t, err)
	require.Empty(t, latest)

	seedStudent(t, db, "ST2024001", "One", "Civil")
	seedStudent(t, db, "ST2024007", "Seven", "Civil")
	seedStudent(t, db, "ST2023009", "Older", "Civil")

	latest, err = repo.LatestRegNumber(context.Background(), "ST2024")
	require.NoError(t, err)
	require.Equal(t, "ST2024007", latest)
}

func TestStudentRepositoryLatestRegNumberComparesNumerically(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	seedStudent(t, db, "ST2024999", "Nine", "Civil")
	seedStudent(t, db, "ST20241000", "Thousand", "Civil")
	seedStudent(t, db, "ST2024ABC", "Manual", "Civil")

	latest, err := repo.LatestRegNumber(context.Background(), "ST2024")
	require.NoError(t, err)
	require.Equal(t, "ST20241000", latest)
}

func TestStudentRepositoryLatestRegNumberKeepsDeletedNumbersReserved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	seedStudent(t, db, "ST2024001", "One", "Civil")
	highest := seedStudent(t, db, "ST2024002", "Two", "Civil")
	require.NoError(t, repo.SoftDelete(context.Background(), highest.ID))

	latest, err := repo.LatestRegNumber(context.Background(), "ST2024")
	require.NoError(t, err)
	require.Equal(t, "ST2024002", latest)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, reg, name, department string) models.Student {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", reg)
	user := models.User{Name: name, Email: email, PasswordHash: "hash", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)
	student := models.Student{UserID: &user.ID, RegNumber: reg, Name: name, Email: email, Department: department, Semester: 5}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func seedSubjects(t *testing.T, db *gorm.DB, codes ...string) []models.Subject {
	t.Helper()
	subjects := make([]models.Subject, 0, len(codes))
	for _, code := range codes {
		subject := models.Subject{Code: code, Name: "Subject " + code}
		require.NoError(t, db.Create(&subject).Error)
		subjects = append(subjects, subject)
	}
	return subjects
}
