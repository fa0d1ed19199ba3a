package dto

import (
	"time"

	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             string            `json:"id"`
	Description    string            `json:"description"`
	DueDate        time.Time         `json:"due_date"`
	Status         models.TaskStatus `json:"status"`
	AssignedToID   string            `json:"AssignedToId"`
	AssignedToName string            `json:"AssignedToName"`
	ProjectID      string            `json:"project_id"`
	ProjectName    string            `json:"project_name"`
	CreatedByID    string            `json:"created_by_id"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        string    `json:"id"`
	Comment   string    `json:"comment"`
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskDraftListResponse wraps AI drafted tasks
type TaskDraftListResponse struct {
	Tasks []services.TaskDraft `json:"tasks"`
}

// ToTaskDTO converts a Task model with its assignee and project preloaded
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:             task.ID,
		Description:    task.Description,
		DueDate:        task.DueDate.UTC(),
		Status:         task.Status,
		AssignedToID:   task.AssignedToID,
		AssignedToName: task.AssignedTo.Username,
		ProjectID:      task.ProjectID,
		ProjectName:    task.Project.Name,
		CreatedByID:    task.CreatedByID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToCommentDTO converts a Comment model with its author preloaded
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		Comment:   comment.Comment,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		Username:  comment.User.Username,
		CreatedAt: comment.CreatedAt,
	}
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		dtos[i] = ToCommentDTO(comment)
	}
	return dtos
}
