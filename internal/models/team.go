package models

type Team struct {
	Base
	Name        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	TeamLeadID  string `gorm:"type:varchar(36);not null" json:"team_lead_id"`

	// Relations
	TeamLead User         `gorm:"foreignKey:TeamLeadID" json:"team_lead,omitempty"`
	Members  []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Projects []Project    `gorm:"foreignKey:TeamID" json:"-"`
}

// HasMember reports whether userID leads the team or is one of its members.
// Members must be preloaded.
func (t *Team) HasMember(userID string) bool {
	if t.TeamLeadID == userID {
		return true
	}
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
