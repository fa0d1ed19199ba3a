package models

import "time"

type TeamMember struct {
	TeamID   string    `gorm:"type:varchar(36);primarykey" json:"team_id"`
	UserID   string    `gorm:"type:varchar(36);primarykey" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
