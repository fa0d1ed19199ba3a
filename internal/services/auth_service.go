package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/teamboard-api/internal/auth"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserConflict       = errors.New("email or username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrFailedToHash       = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	teamRepo repository.TeamRepository
	tokens   *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, teamRepo repository.TeamRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		teamRepo: teamRepo,
		tokens:   tokens,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email    string
	Username string
	Password string
	Role     string
}

// Signup creates a new user and issues its first token.
func (s *AuthService) Signup(input SignupInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	switch {
	case email == "":
		return nil, "", invalidInput("email is required")
	case username == "":
		return nil, "", invalidInput("username is required")
	case input.Password == "":
		return nil, "", invalidInput("password is required")
	case len(input.Password) > auth.MaxPasswordBytes:
		return nil, "", invalidInput("password must be at most %d bytes", auth.MaxPasswordBytes)
	}

	// Elevated roles are granted by an admin, never at signup.
	if strings.TrimSpace(input.Role) != "" {
		role, err := models.ParseRole(input.Role)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidRole, err)
		}
		if role != models.RoleUser {
			return nil, "", fmt.Errorf("%w: %s cannot be self-assigned", ErrInvalidRole, role)
		}
	}
	roles := []models.Role{models.RoleUser}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFailedToHash, err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Roles:        roles,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrUserConflict
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.RoleNames(), false)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a token carrying the team lead claim.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		return nil, "", ErrInvalidCredentials
	}

	teamLead, err := s.teamRepo.IsLeadOfAny(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check team lead status: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.RoleNames(), teamLead)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ListUsers returns every registered user.
func (s *AuthService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUserRoles replaces the role set of a user.
func (s *AuthService) UpdateUserRoles(id string, values []string) (*models.User, error) {
	if len(values) == 0 {
		return nil, invalidInput("at least one role is required")
	}

	roles, err := models.ParseRoles(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRole, err)
	}

	if err := s.userRepo.UpdateRoles(id, roles); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update roles: %w", err)
	}

	return s.GetUser(id)
}
