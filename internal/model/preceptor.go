package model

// Preceptor is a supervising professional with a per-date student capacity.
// MaxStudents <= 0 means the preceptor can never take a student: capacity
// fails closed when no real capacity was ever configured.
type Preceptor struct {
	PreceptorID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"preceptor_id"`
	Name        string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email       string  `gorm:"type:varchar(255);not null;default:''"          json:"email"`
	MaxStudents int     `gorm:"type:smallint;not null;default:0"               json:"max_students"`
	Specialty   string  `gorm:"type:varchar(100);not null;default:''"          json:"specialty"`
	SiteID      *string `gorm:"type:uuid"                                      json:"site_id,omitempty"`
	BaseModel

	Site *Site `gorm:"foreignKey:SiteID;references:SiteID" json:"site,omitempty"`
}

func (Preceptor) TableName() string { return "preceptors" }
