package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/policy"
	"github.com/yukikurage/teamboard-api/internal/repository"
)

// CommentService handles comment business logic
type CommentService struct {
	commentRepo repository.CommentRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

// CreateCommentInput represents input for creating a comment
type CreateCommentInput struct {
	Comment string
	TaskID  string
}

// CreateComment stores a comment authored by actor. The task is not
// checked for existence.
func (s *CommentService) CreateComment(actor *policy.Identity, input CreateCommentInput) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, invalidInput("comment is required")
	}
	if strings.TrimSpace(input.TaskID) == "" {
		return nil, invalidInput("taskId is required")
	}

	comment := &models.Comment{
		Comment: input.Comment,
		TaskID:  strings.TrimSpace(input.TaskID),
		UserID:  actor.UserID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	comment.User.ID = actor.UserID
	comment.User.Username = actor.Username
	return comment, nil
}

// ListComments returns the comments of a task, oldest first.
func (s *CommentService) ListComments(taskID string) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
