// Package seed loads YAML fixtures into the database at start-up.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/yukikurage/teamboard-api/internal/auth"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixture is the YAML document accepted by Load.
//
//	users:
//	  - email: admin@example.com
//	    username: admin
//	    password: change-me
//	    roles: [admin]
//	teams:
//	  - name: Core
//	    team_lead: admin
//	    members: [alice]
//	projects:
//	  - name: Apollo
//	    team: Core
type Fixture struct {
	Users    []UserFixture    `yaml:"users"`
	Teams    []TeamFixture    `yaml:"teams"`
	Projects []ProjectFixture `yaml:"projects"`
}

type UserFixture struct {
	Email    string   `yaml:"email"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	Roles    []string `yaml:"roles"`
}

type TeamFixture struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	TeamLead    string   `yaml:"team_lead"`
	Members     []string `yaml:"members"`
}

type ProjectFixture struct {
	Name string `yaml:"name"`
	Team string `yaml:"team"`
}

// Load reads a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture document. Unknown keys are rejected.
func Parse(data []byte) (*Fixture, error) {
	var fixture Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixture); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &fixture, nil
}

// Seeder applies fixtures through the repositories.
type Seeder struct {
	users    repository.UserRepository
	teams    repository.TeamRepository
	projects repository.ProjectRepository
	logger   *slog.Logger
}

// NewSeeder creates a Seeder backed by db.
func NewSeeder(db *gorm.DB, logger *slog.Logger) *Seeder {
	return &Seeder{
		users:    repository.NewUserRepository(db),
		teams:    repository.NewTeamRepository(db),
		projects: repository.NewProjectRepository(db),
		logger:   logger,
	}
}

// Apply creates the users, teams and projects of fixture in that order.
// Records that already exist (same email, team name or project name) are
// left untouched, so applying a fixture twice is a no-op.
func (s *Seeder) Apply(fixture *Fixture) error {
	for _, u := range fixture.Users {
		if err := s.applyUser(u); err != nil {
			return fmt.Errorf("user %q: %w", u.Username, err)
		}
	}
	for _, t := range fixture.Teams {
		if err := s.applyTeam(t); err != nil {
			return fmt.Errorf("team %q: %w", t.Name, err)
		}
	}
	for _, p := range fixture.Projects {
		if err := s.applyProject(p); err != nil {
			return fmt.Errorf("project %q: %w", p.Name, err)
		}
	}
	return nil
}

func (s *Seeder) applyUser(u UserFixture) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if email == "" || strings.TrimSpace(u.Username) == "" || u.Password == "" {
		return errors.New("email, username and password are required")
	}

	_, err := s.users.FindByEmail(email)
	if exists, err := found(err); err != nil || exists {
		return err
	}

	roles := []models.Role{models.RoleUser}
	if len(u.Roles) > 0 {
		if roles, err = models.ParseRoles(u.Roles); err != nil {
			return err
		}
	}

	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        email,
		Username:     strings.TrimSpace(u.Username),
		PasswordHash: hash,
		Roles:        roles,
	}
	if err := s.users.Create(user); err != nil {
		return err
	}
	s.logger.Info("seeded user", "username", user.Username, "roles", user.RoleNames())
	return nil
}

func (s *Seeder) applyTeam(t TeamFixture) error {
	_, err := s.teams.FindByName(t.Name)
	if exists, err := found(err); err != nil || exists {
		return err
	}

	lead, err := s.users.FindByUsername(t.TeamLead)
	if err != nil {
		return fmt.Errorf("team lead %q: %w", t.TeamLead, err)
	}

	memberIDs := make([]string, 0, len(t.Members))
	seen := make(map[string]struct{}, len(t.Members))
	for _, name := range t.Members {
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; dup || name == "" {
			continue
		}
		seen[name] = struct{}{}

		member, err := s.users.FindByUsername(name)
		if err != nil {
			return fmt.Errorf("member %q: %w", name, err)
		}
		memberIDs = append(memberIDs, member.ID)
	}

	team := &models.Team{Name: t.Name, Description: t.Description, TeamLeadID: lead.ID}
	if err := s.teams.Create(team, memberIDs); err != nil {
		return err
	}
	s.logger.Info("seeded team", "name", team.Name, "members", len(memberIDs))
	return nil
}

func (s *Seeder) applyProject(p ProjectFixture) error {
	_, err := s.projects.FindByName(p.Name)
	if exists, err := found(err); err != nil || exists {
		return err
	}

	team, err := s.teams.FindByName(p.Team)
	if err != nil {
		return fmt.Errorf("team %q: %w", p.Team, err)
	}

	project := &models.Project{Name: p.Name, TeamID: team.ID}
	if err := s.projects.Create(project); err != nil {
		return err
	}
	s.logger.Info("seeded project", "name", project.Name, "team", team.Name)
	return nil
}

// found turns a repository lookup error into an existence check.
func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, err
	}
}
