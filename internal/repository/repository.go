package repository

import (
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByUsernames resolves usernames to users; unknown names are skipped
	FindByUsernames(usernames []string) ([]models.User, error)

	// List lists all users ordered by username
	List() ([]models.User, error)

	// UpdateRoles replaces the role set of a user
	UpdateRoles(id string, roles []models.Role) error
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a team together with its membership rows
	Create(team *models.Team, memberIDs []string) error

	// FindByID finds a team by ID with its lead and members preloaded
	FindByID(id string) (*models.Team, error)

	// FindByName finds a team by name with its lead and members preloaded
	FindByName(name string) (*models.Team, error)

	// List lists all teams with their lead and members preloaded
	List() ([]models.Team, error)

	// Update saves team fields and replaces its membership rows
	Update(team *models.Team, memberIDs []string) error

	// Delete deletes a team and its membership rows
	Delete(id string) error

	// CountProjects counts the projects referencing a team
	CountProjects(teamID string) (int64, error)

	// IsLeadOfAny reports whether the user leads at least one team
	IsLeadOfAny(userID string) (bool, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with its team preloaded
	FindByID(id string) (*models.Project, error)

	// FindByName finds a project by name with its team preloaded
	FindByName(name string) (*models.Project, error)

	// List lists all projects with their teams preloaded
	List() ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project, its tasks and their comments
	Delete(id string) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task and its comments
	Delete(id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID    string
	Status       *models.TaskStatus
	AssignedToID string
	Pagination   utils.PaginationParams
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// ListByTask lists the comments of a task, oldest first, with authors preloaded
	ListByTask(taskID string) ([]models.Comment, error)
}
