package models

import "time"

// Site describes one local blog site managed by the app.
type Site struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Path        *string   `json:"path,omitempty"` // local checkout of the site, optional
	CreatedAt   time.Time `json:"created_at"`
}

func (Site) TableName() string { return "site" }

// Setting is a key/value pair in the settings table.
type Setting struct {
	Key   string `gorm:"primaryKey;column:key" json:"key"`
	Value string `gorm:"column:value" json:"value"`
}

func (Setting) TableName() string { return "settings" }

// SettingLastSiteID stores the site the user had open last.
const SettingLastSiteID = "last_site_id"
