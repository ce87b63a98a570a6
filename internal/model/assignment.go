package model

import "time"

// Assignment statuses. Status is a free-form label as far as the engine is
// concerned; these are the values the UI writes.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

// Assignment is the only entity the scheduling core owns and mutates.
// One row per (student, preceptor, clerkship, rotation date).
//
// The uq_assignments_student_date unique index enforces the one-place-per-day
// invariant at the store level as a backstop behind the validator.
type Assignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	StudentID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_assignments_student_date" json:"student_id"`
	PreceptorID  string    `gorm:"type:uuid;not null;index:idx_assignments_preceptor_date"    json:"preceptor_id"`
	ClerkshipID  string    `gorm:"type:uuid;not null"                             json:"clerkship_id"`
	RotationDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_assignments_student_date;index:idx_assignments_preceptor_date" json:"rotation_date"`
	Status       string    `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	Version      int       `gorm:"not null;default:1"                             json:"version"`
	BaseModel

	Student   *Student   `gorm:"foreignKey:StudentID;references:StudentID"       json:"student,omitempty"`
	Preceptor *Preceptor `gorm:"foreignKey:PreceptorID;references:PreceptorID"   json:"preceptor,omitempty"`
	Clerkship *Clerkship `gorm:"foreignKey:ClerkshipID;references:ClerkshipID"   json:"clerkship,omitempty"`
}

func (Assignment) TableName() string { return "assignments" }
