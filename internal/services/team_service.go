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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameTaken    = errors.New("team name already exists")
	ErrTeamLeadNotFound = errors.New("team lead not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrTeamHasProjects  = errors.New("cannot delete team with associated projects")
)

// MemberNotFoundError names the member username that could not be resolved.
type MemberNotFoundError struct {
	Username string
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMemberNotFound, e.Username)
}

func (e *MemberNotFoundError) Unwrap() error {
	return ErrMemberNotFound
}

// TeamService provides business logic for team operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// TeamInput carries the writable fields of a team. Lead and members are
// given as usernames.
type TeamInput struct {
	Name        string
	Description string
	TeamLead    string
	Members     []string
}

// CreateTeam creates a team with its lead and members.
func (s *TeamService) CreateTeam(input TeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalidInput("team name is required")
	}

	if err := s.ensureNameAvailable(name, ""); err != nil {
		return nil, err
	}

	leadID, memberIDs, err := s.resolveMembers(input.TeamLead, input.Members)
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:        name,
		Description: input.Description,
		TeamLeadID:  leadID,
	}

	if err := s.teamRepo.Create(team, memberIDs); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeamNameTaken
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return s.GetTeam(team.ID)
}

// ListTeams returns all teams with their lead and members.
func (s *TeamService) ListTeams() ([]models.Team, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns a team by ID.
func (s *TeamService) GetTeam(id string) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// UpdateTeam overwrites a team's fields and replaces its members.
func (s *TeamService) UpdateTeam(id string, input TeamInput) (*models.Team, error) {
	team, err := s.GetTeam(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalidInput("team name is required")
	}

	if err := s.ensureNameAvailable(name, team.ID); err != nil {
		return nil, err
	}

	leadID, memberIDs, err := s.resolveMembers(input.TeamLead, input.Members)
	if err != nil {
		return nil, err
	}

	team.Name = name
	team.Description = input.Description
	team.TeamLeadID = leadID

	if err := s.teamRepo.Update(team, memberIDs); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeamNameTaken
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return s.GetTeam(team.ID)
}

// DeleteTeam deletes a team unless a project still references it.
func (s *TeamService) DeleteTeam(id string) error {
	if _, err := s.GetTeam(id); err != nil {
		return err
	}

	count, err := s.teamRepo.CountProjects(id)
	if err != nil {
		return fmt.Errorf("failed to count projects: %w", err)
	}
	if count > 0 {
		return ErrTeamHasProjects
	}

	if err := s.teamRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// ensureNameAvailable fails when another team than exceptID uses name.
func (s *TeamService) ensureNameAvailable(name, exceptID string) error {
	existing, err := s.teamRepo.FindByName(name)
	if err == nil {
		if existing.ID != exceptID {
			return ErrTeamNameTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check team name: %w", err)
	}
	return nil
}

// resolveMembers turns the lead and member usernames into user IDs.
// Duplicate member names are collapsed.
func (s *TeamService) resolveMembers(lead string, members []string) (string, []string, error) {
	lead = strings.TrimSpace(lead)
	if lead == "" {
		return "", nil, invalidInput("team_lead is required")
	}

	leadUser, err := s.userRepo.FindByUsername(lead)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrTeamLeadNotFound
		}
		return "", nil, fmt.Errorf("failed to find team lead: %w", err)
	}

	names := make([]string, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		names = append(names, m)
	}

	users, err := s.userRepo.FindByUsernames(names)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find members: %w", err)
	}

	byName := make(map[string]string, len(users))
	for _, u := range users {
		byName[u.Username] = u.ID
	}

	memberIDs := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return "", nil, &MemberNotFoundError{Username: name}
		}
		memberIDs = append(memberIDs, id)
	}

	return leadUser.ID, memberIDs, nil
}
