package model

// Clerkship is a rotation type with a fixed number of days a student must
// accumulate.
type Clerkship struct {
	ClerkshipID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"clerkship_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	RequiredDays int    `gorm:"type:smallint;not null;default:0"               json:"required_days"`
	Specialty    string `gorm:"type:varchar(100);not null;default:''"          json:"specialty"`
	BaseModel
}

func (Clerkship) TableName() string { return "clerkships" }
