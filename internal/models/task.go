package models

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusWaiting    TaskStatus = "waiting"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus validates a status value. An empty value means "waiting".
func ParseTaskStatus(value string) (TaskStatus, error) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(value))) {
	case "", TaskStatusWaiting:
		return TaskStatusWaiting, nil
	case TaskStatusInProgress:
		return TaskStatusInProgress, nil
	case TaskStatusCompleted:
		return TaskStatusCompleted, nil
	default:
		return "", fmt.Errorf("invalid task status %q", value)
	}
}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusWaiting, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether a task may move from s to next.
// A completed task can only be reopened to in-progress.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	if s == TaskStatusCompleted {
		return next == TaskStatusInProgress
	}
	return true
}

type Task struct {
	Base
	Description  string     `gorm:"type:text;not null" json:"description"`
	DueDate      time.Time  `gorm:"not null" json:"due_date"`
	Status       TaskStatus `gorm:"type:varchar(20);not null;default:'waiting'" json:"status"`
	AssignedToID string     `gorm:"type:varchar(36);not null" json:"assigned_to_id"`
	ProjectID    string     `gorm:"type:varchar(36);not null" json:"project_id"`
	CreatedByID  string     `gorm:"type:varchar(36)" json:"created_by_id"`

	// Relations
	AssignedTo User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Project    Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Comments   []Comment `gorm:"foreignKey:TaskID" json:"-"`
}
