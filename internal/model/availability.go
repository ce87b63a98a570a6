package model

import "time"

// AvailabilityState is the three-valued answer to "can this preceptor take
// students on this date": an explicit yes, an explicit no, or no record.
type AvailabilityState int

const (
	AvailabilityUnset AvailabilityState = iota
	AvailabilityAvailable
	AvailabilityUnavailable
)

// AvailabilityRecord marks a (preceptor, date) explicitly available or
// unavailable. Absence of a record means "no explicit restriction" and is
// treated as available by the validator.
type AvailabilityRecord struct {
	AvailabilityID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"availability_id"`
	PreceptorID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_availability_preceptor_date" json:"preceptor_id"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:uq_availability_preceptor_date" json:"date"`
	Available      bool      `gorm:"not null;default:true"                          json:"available"`
	Reason         string    `gorm:"type:varchar(200);not null;default:''"          json:"reason,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	Preceptor *Preceptor `gorm:"foreignKey:PreceptorID;references:PreceptorID" json:"preceptor,omitempty"`
}

func (AvailabilityRecord) TableName() string { return "availability_records" }
