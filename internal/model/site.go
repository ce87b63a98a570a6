package model

// Site is a clinical location preceptors are affiliated with. Replacement
// selection during regeneration pools preceptors by site.
type Site struct {
	SiteID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"site_id"`
	Name    string `gorm:"type:varchar(100);not null"                     json:"name"`
	Address string `gorm:"type:varchar(255);not null;default:''"          json:"address"`
	BaseModel
}

func (Site) TableName() string { return "sites" }
