package model

import "time"

// BlackoutDate blocks all assignments on a calendar date, regardless of
// preceptor.
type BlackoutDate struct {
	Date      time.Time `gorm:"type:date;primaryKey"                  json:"date"`
	Reason    string    `gorm:"type:varchar(200);not null;default:''" json:"reason,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"created_at"`
}

func (BlackoutDate) TableName() string { return "blackout_dates" }
