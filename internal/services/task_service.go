package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/teamboard-api/internal/constants"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/policy"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrAssigneeNotFound       = errors.New("assigned user not found")
	ErrAssigneeNotInTeam      = errors.New("assigned user is not a member of the project's team")
	ErrNotTeamLead            = errors.New("only the team lead can create tasks")
	ErrTaskPermissionDenied   = errors.New("user does not have permission to modify this task")
	ErrInvalidStatus          = errors.New("invalid task status")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInvalidDueDate         = errors.New("invalid due date")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	userRepo    repository.UserRepository
	aiService   *AIService
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	aiService *AIService,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		aiService:   aiService,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Project      string
	Status       string
	AssignedToMe bool
	Pagination   utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Description    string
	DueDate        string
	AssignedToName string
	ProjectName    string
	Status         string
}

// UpdateTaskInput represents a partial task update. Nil fields are left
// unchanged.
type UpdateTaskInput struct {
	Description    *string
	DueDate        *string
	AssignedToName *string
	ProjectName    *string
	Status         *string
}

// DraftTasksInput represents input for AI task drafting
type DraftTasksInput struct {
	ProjectName string
	Text        string
}

// ListTasks returns the tasks matching the filters and the unpaginated total.
// actor may be nil when reads are public.
func (s *TaskService) ListTasks(actor *policy.Identity, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{Pagination: input.Pagination}

	if strings.TrimSpace(input.Project) != "" {
		project, err := s.findProject(input.Project)
		if err != nil {
			return nil, 0, err
		}
		filter.ProjectID = project.ID
	}

	if strings.TrimSpace(input.Status) != "" {
		status, err := parseStatus(input.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &status
	}

	if input.AssignedToMe {
		if actor == nil {
			return nil, 0, ErrUnauthenticated
		}
		filter.AssignedToID = actor.UserID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with its assignee and project
func (s *TaskService) GetTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "AssignedTo", "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a task in a project led by actor
func (s *TaskService) CreateTask(actor *policy.Identity, input CreateTaskInput) (*models.Task, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	switch {
	case strings.TrimSpace(input.Description) == "":
		return nil, invalidInput("description is required")
	case strings.TrimSpace(input.DueDate) == "":
		return nil, invalidInput("due_date is required")
	case strings.TrimSpace(input.AssignedToName) == "":
		return nil, invalidInput("AssignedToName is required")
	case strings.TrimSpace(input.ProjectName) == "":
		return nil, invalidInput("project_name is required")
	}

	dueDate, err := ParseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, err
	}

	assignee, err := s.findAssignee(input.AssignedToName)
	if err != nil {
		return nil, err
	}

	project, err := s.findProjectByName(input.ProjectName)
	if err != nil {
		return nil, err
	}

	team, err := s.requireTeamLead(actor, project, ErrNotTeamLead)
	if err != nil {
		return nil, err
	}

	if !team.HasMember(assignee.ID) {
		return nil, ErrAssigneeNotInTeam
	}

	task := &models.Task{
		Description:  strings.TrimSpace(input.Description),
		DueDate:      dueDate,
		Status:       status,
		AssignedToID: assignee.ID,
		ProjectID:    project.ID,
		CreatedByID:  actor.UserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	task.AssignedTo = *assignee
	task.Project = *project
	return task, nil
}

// UpdateTask applies a partial update. Only the lead of the task's project
// team, and of the target project's team when the project changes, may
// update a task.
func (s *TaskService) UpdateTask(actor *policy.Identity, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	team, err := s.requireTeamLead(actor, &task.Project, ErrTaskPermissionDenied)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, invalidInput("description cannot be empty")
		}
		task.Description = description
	}

	if input.DueDate != nil {
		dueDate, err := ParseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	if input.Status != nil {
		status, err := parseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		if !task.Status.CanTransitionTo(status) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, task.Status, status)
		}
		task.Status = status
	}

	if input.ProjectName != nil && strings.TrimSpace(*input.ProjectName) == "" {
		return nil, invalidInput("project_name cannot be empty")
	}
	if input.ProjectName != nil && strings.TrimSpace(*input.ProjectName) != task.Project.Name {
		project, err := s.findProjectByName(*input.ProjectName)
		if err != nil {
			return nil, err
		}
		team, err = s.requireTeamLead(actor, project, ErrTaskPermissionDenied)
		if err != nil {
			return nil, err
		}
		task.ProjectID = project.ID
		task.Project = *project
	}

	if input.AssignedToName != nil {
		if strings.TrimSpace(*input.AssignedToName) == "" {
			return nil, invalidInput("AssignedToName cannot be empty")
		}
		assignee, err := s.findAssignee(*input.AssignedToName)
		if err != nil {
			return nil, err
		}
		task.AssignedToID = assignee.ID
		task.AssignedTo = *assignee
	}

	if !team.HasMember(task.AssignedToID) {
		return nil, ErrAssigneeNotInTeam
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// UpdateTaskStatus moves a task to a new status. The assignee, any admin
// and the project's team lead may do so.
func (s *TaskService) UpdateTaskStatus(actor *policy.Identity, taskID, value string) (*models.Task, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	if strings.TrimSpace(value) == "" {
		return nil, invalidInput("status is required")
	}
	status, err := parseStatus(value)
	if err != nil {
		return nil, err
	}

	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	if task.AssignedToID != actor.UserID && !actor.IsAdmin() {
		if _, err := s.requireTeamLead(actor, &task.Project, ErrTaskPermissionDenied); err != nil {
			return nil, err
		}
	}

	if !task.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, task.Status, status)
	}

	task.Status = status
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task and its comments. Admins and the project's
// team lead may delete.
func (s *TaskService) DeleteTask(actor *policy.Identity, taskID string) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	task, err := s.GetTask(taskID)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		if _, err := s.requireTeamLead(actor, &task.Project, ErrTaskPermissionDenied); err != nil {
			return err
		}
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// DraftTasks asks the AI service for task drafts. Only the project's team
// lead may draft tasks for it.
func (s *TaskService) DraftTasks(ctx context.Context, actor *policy.Identity, input DraftTasksInput) ([]TaskDraft, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	if strings.TrimSpace(input.Text) == "" {
		return nil, invalidInput("text is required")
	}
	if strings.TrimSpace(input.ProjectName) == "" {
		return nil, invalidInput("project_name is required")
	}

	project, err := s.findProjectByName(input.ProjectName)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireTeamLead(actor, project, ErrNotTeamLead); err != nil {
		return nil, err
	}

	drafts, err := s.aiService.DraftTasksFromText(ctx, project.Name, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to draft tasks: %w", err)
	}

	valid := make([]TaskDraft, 0, len(drafts))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		draft.Description = strings.TrimSpace(draft.Description)
		if draft.Description == "" {
			continue
		}

		if draft.DueDate != nil {
			if draft.DueDate.Before(cutoff) {
				draft.DueDate = nil
			} else {
				utc := draft.DueDate.UTC()
				draft.DueDate = &utc
			}
		}

		valid = append(valid, draft)
		if len(valid) == constants.MaxAIGeneratedTasks {
			break
		}
	}

	return valid, nil
}

// ParseDueDate accepts an RFC 3339 instant or a YYYY-MM-DD date and returns
// the instant in UTC. Bare dates mean midnight UTC.
func ParseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q must be RFC 3339 or YYYY-MM-DD", ErrInvalidDueDate, value)
}

func parseStatus(value string) (models.TaskStatus, error) {
	status, err := models.ParseTaskStatus(value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return status, nil
}

// requireTeamLead loads the project's team and fails with denied unless
// actor leads it.
func (s *TaskService) requireTeamLead(actor *policy.Identity, project *models.Project, denied error) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(project.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	if team.TeamLeadID != actor.UserID {
		return nil, denied
	}
	return team, nil
}

func (s *TaskService) findAssignee(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}
	return user, nil
}

func (s *TaskService) findProjectByName(name string) (*models.Project, error) {
	project, err := s.projectRepo.FindByName(strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// findProject resolves a project by name, then by ID.
func (s *TaskService) findProject(key string) (*models.Project, error) {
	project, err := s.findProjectByName(key)
	if !errors.Is(err, ErrProjectNotFound) {
		return project, err
	}

	project, err = s.projectRepo.FindByID(strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
