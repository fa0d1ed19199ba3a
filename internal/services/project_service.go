package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrProjectNameTaken = errors.New("project name already exists")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, teamRepo repository.TeamRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
	}
}

// ProjectInput carries the writable fields of a project. The team is
// referenced by name.
type ProjectInput struct {
	Name     string
	TeamName string
}

// CreateProject creates a project owned by the named team.
func (s *ProjectService) CreateProject(input ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalidInput("project name is required")
	}
	if strings.TrimSpace(input.TeamName) == "" {
		return nil, invalidInput("team_name is required")
	}

	team, err := s.findTeam(input.TeamName)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(name, ""); err != nil {
		return nil, err
	}

	project := &models.Project{Name: name, TeamID: team.ID}
	if err := s.projectRepo.Create(project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProjectNameTaken
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	project.Team = *team
	return project, nil
}

// ListProjects returns all projects with their teams.
func (s *ProjectService) ListProjects() ([]models.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject looks a project up by name and falls back to its ID.
func (s *ProjectService) GetProject(key string) (*models.Project, error) {
	project, err := s.projectRepo.FindByName(key)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return s.getByID(key)
}

// UpdateProject renames a project or moves it to another team. Empty
// fields keep their current value.
func (s *ProjectService) UpdateProject(id string, input ProjectInput) (*models.Project, error) {
	project, err := s.getByID(id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != project.Name {
		if err := s.ensureNameAvailable(name, project.ID); err != nil {
			return nil, err
		}
		project.Name = name
	}

	if strings.TrimSpace(input.TeamName) != "" {
		team, err := s.findTeam(input.TeamName)
		if err != nil {
			return nil, err
		}
		project.TeamID = team.ID
		project.Team = *team
	}

	if err := s.projectRepo.Update(project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProjectNameTaken
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject deletes a project along with its tasks and their comments.
func (s *ProjectService) DeleteProject(id string) error {
	if err := s.projectRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) getByID(id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) findTeam(name string) (*models.Team, error) {
	team, err := s.teamRepo.FindByName(strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

func (s *ProjectService) ensureNameAvailable(name, exceptID string) error {
	existing, err := s.projectRepo.FindByName(name)
	if err == nil {
		if existing.ID != exceptID {
			return ErrProjectNameTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check project name: %w", err)
	}
	return nil
}
