package models

type Project struct {
	Base
	Name   string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	TeamID string `gorm:"type:varchar(36);not null" json:"team_id"`

	// Relations
	Team  Team   `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"-"`
}
