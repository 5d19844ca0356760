package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is an enrolled learner. Each student owns one login account.
type Student struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     *uint          `gorm:"uniqueIndex" json:"user_id"`
	RegNumber  string         `gorm:"size:32;uniqueIndex;not null" json:"reg_number"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Email      string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Department string         `gorm:"size:128;not null;index" json:"department"`
	Semester   int            `gorm:"not null" json:"semester"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	User       *User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

// Departments lists the departments a student can belong to.
var Departments = []string{
	"Computer Science",
	"Information Technology",
	"Electronics",
	"Mechanical",
	"Civil",
	"Electrical",
}
