package dto

import (
	"time"

	"github.com/yukikurage/teamboard-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never
// part of it.
type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      []string  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is returned by signup and login
type TokenResponse struct {
	Token string `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.RoleNames(),
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
