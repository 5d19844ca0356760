package models

import "time"

// Feedback ratings, best first.
const (
	RatingOutstanding = "outstanding"
	RatingExcellent   = "excellent"
	RatingGood        = "good"
	RatingAverage     = "average"
	RatingPoor        = "poor"
)

// Feedback is a staff comment on a student's work in a subject.
type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	SubjectID uint      `gorm:"not null;index" json:"subject_id"`
	StaffID   uint      `gorm:"not null" json:"staff_id"`
	Rating    string    `gorm:"size:32;not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Subject   Subject   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject"`
	Staff     User      `gorm:"foreignKey:StaffID" json:"staff"`
}

// TableName keeps feedback uncountable.
func (Feedback) TableName() string {
	return "feedback"
}
