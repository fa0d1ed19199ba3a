package dto

import (
	"time"

	"github.com/yukikurage/teamboard-api/internal/models"
)

// TeamDTO represents a team in API responses. Lead and members are shown
// by username.
type TeamDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TeamLeadID  string    `json:"team_lead_id"`
	TeamLead    string    `json:"team_lead"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TeamID    string    `json:"team_id"`
	TeamName  string    `json:"team_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTeamDTO converts a Team model with preloaded lead and members
func ToTeamDTO(team models.Team) TeamDTO {
	members := make([]string, len(team.Members))
	for i, m := range team.Members {
		members[i] = m.User.Username
	}

	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		TeamLeadID:  team.TeamLeadID,
		TeamLead:    team.TeamLead.Username,
		Members:     members,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}

// ToTeamDTOs converts a slice of teams
func ToTeamDTOs(teams []models.Team) []TeamDTO {
	dtos := make([]TeamDTO, len(teams))
	for i, team := range teams {
		dtos[i] = ToTeamDTO(team)
	}
	return dtos
}

// ToProjectDTO converts a Project model with its team preloaded
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		TeamID:    project.TeamID,
		TeamName:  project.Team.Name,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}
