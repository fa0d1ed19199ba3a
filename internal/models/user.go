package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleTeamLead Role = "team-lead"
)

// ParseRole validates a role tag. "member" is accepted as an alias of "user".
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(RoleUser), "member":
		return RoleUser, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleTeamLead):
		return RoleTeamLead, nil
	default:
		return "", fmt.Errorf("invalid role %q", value)
	}
}

// ParseRoles validates role tags and collapses duplicates, keeping the
// first occurrence order.
func ParseRoles(values []string) ([]Role, error) {
	roles := make([]Role, 0, len(values))
	seen := make(map[Role]struct{}, len(values))
	for _, value := range values {
		role, err := ParseRole(value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles, nil
}

type User struct {
	Base
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Roles        []Role `gorm:"serializer:json;type:varchar(255);not null" json:"role"`
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// RoleNames returns the role set as plain strings.
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = string(r)
	}
	return names
}
