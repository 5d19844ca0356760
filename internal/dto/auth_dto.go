package dto

import (
	"time"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

// LoginRequest captures credentials submitted to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// UserProfile describes the authenticated account.
type UserProfile struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	StudentID  *uint  `json:"student_id,omitempty"`
	RegNumber  string `json:"reg_number,omitempty"`
	Department string `json:"department,omitempty"`
	Semester   int    `json:"semester,omitempty"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserProfile `json:"user"`
}

// NewUserProfile builds a profile from an account and, for students, the
// student record it owns.
func NewUserProfile(user models.User, student *models.Student) UserProfile {
	profile := UserProfile{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	if student != nil {
		id := student.ID
		profile.StudentID = &id
		profile.RegNumber = student.RegNumber
		profile.Department = student.Department
		profile.Semester = student.Semester
	}
	return profile
}
