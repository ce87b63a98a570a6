package model

// Student is owned by the enrollment subsystem; the scheduling core only
// reads it.
type Student struct {
	StudentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email     string `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	Phone     string `gorm:"type:varchar(30);not null;default:''"           json:"phone"`
	BaseModel
}

func (Student) TableName() string { return "students" }
