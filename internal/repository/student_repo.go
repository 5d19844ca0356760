package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

// StudentFilter defines filters for listing students from the staff panel.
type StudentFilter struct {
	Search     string
	Department string
	Semester   int
	Sort       string
	Page       int
	PageSize   int
}

// StudentRepository exposes persistence helpers for student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	ListAll(ctx context.Context) ([]models.Student, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByUserID(ctx context.Context, userID uint) (models.Student, error)
	CreateWithAccount(ctx context.Context, user *models.User, student *models.Student, subjectIDs []uint) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error)
	SoftDelete(ctx context.Context, id uint) error
	LatestRegNumber(ctx context.Context, prefix string) (string, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs the student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(reg_number) LIKE ?", like, like, like)
	}

	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}

	if filter.Semester > 0 {
		query = query.Where("semester = ?", filter.Semester)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filter.Sort
	if sort == "" {
		sort = "reg_number ASC"
	}
	query = query.Order(sort)

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Order("reg_number ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&total).Error
	return total, err
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

// CreateWithAccount inserts the login account, the student record and its
// enrollments in one transaction.
func (r *studentRepository) CreateWithAccount(ctx context.Context, user *models.User, student *models.Student, subjectIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		student.UserID = &user.ID
		if err := tx.Create(student).Error; err != nil {
			return fmt.Errorf("create student: %w", err)
		}

		return replaceEnrollments(tx, student.ID, subjectIDs)
	})
}

func (r *studentRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Student{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return result.Error
		}

		var student models.Student
		if err := tx.Where("id = ?", id).First(&student).Error; err != nil {
			return err
		}

		// Keep the login account in step with the contact fields.
		account := map[string]interface{}{}
		if name, ok := updates["name"]; ok {
			account["name"] = name
		}
		if email, ok := updates["email"]; ok {
			account["email"] = email
		}
		if len(account) > 0 && student.UserID != nil {
			return tx.Model(&models.User{}).Where("id = ?", *student.UserID).Updates(account).Error
		}
		return nil
	})
	if err != nil {
		return models.Student{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *studentRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.Where("id = ?", id).First(&student).Error; err != nil {
			return err
		}

		if err := tx.Where("student_id = ?", id).Delete(&models.StudentSubject{}).Error; err != nil {
			return err
		}

		userID := student.UserID

		// Free the unique columns so the email and a hand-entered reg number can be reused.
		tombstone := fmt.Sprintf("deleted-%d-", student.ID)
		if err := tx.Model(&student).Updates(map[string]interface{}{
			"reg_number": tombstone + student.RegNumber,
			"email":      tombstone + student.Email,
			"user_id":    nil,
		}).Error; err != nil {
			return err
		}

		if userID != nil {
			if err := tx.Delete(&models.User{}, *userID).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&student).Error
	})
}

// LatestRegNumber returns the registration number with the given prefix and
// the highest numeric suffix, or an empty string. Numbers held by deleted
// students count, so they are never issued again.
func (r *studentRepository) LatestRegNumber(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Student{}).
		Where("reg_number LIKE ? OR reg_number LIKE ?", prefix+"%", "deleted-%-"+prefix+"%").
		Pluck("reg_number", &numbers).Error
	if err != nil {
		return "", err
	}

	latest, highest := "", -1
	for _, number := range numbers {
		if strings.HasPrefix(number, "deleted-") {
			parts := strings.SplitN(number, "-", 3)
			if len(parts) != 3 {
				continue
			}
			number = parts[2]
		}
		suffix, ok := strings.CutPrefix(number, prefix)
		if !ok {
			continue
		}
		seq, convErr := strconv.Atoi(suffix)
		if convErr != nil || seq < 0 {
			continue
		}
		if seq > highest {
			latest, highest = number, seq
		}
	}
	return latest, nil
}
