package models

import "time"

// Account roles.
const (
	RoleStaff   = "staff"
	RoleStudent = "student"
)

// User is a login account for staff members and students.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:32;not null;index" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsStaff reports whether the account belongs to a staff member.
func (u User) IsStaff() bool {
	return u.Role == RoleStaff
}
