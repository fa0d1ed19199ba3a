package models

type Comment struct {
	Base
	Comment string `gorm:"type:text;not null" json:"comment"`
	TaskID  string `gorm:"type:varchar(36);not null" json:"task_id"`
	UserID  string `gorm:"type:varchar(36)" json:"user_id"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
