// Package policy decides whether an authenticated identity may pass a role
// gate. Every gate in the API goes through Allows.
package policy

import "github.com/yukikurage/teamboard-api/internal/models"

// Identity is the authenticated caller as seen by handlers.
type Identity struct {
	UserID   string
	Username string
	Roles    []models.Role
	TeamLead bool
}

// HasRole reports whether the identity holds role.
func (i *Identity) HasRole(role models.Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i *Identity) IsAdmin() bool {
	return i.HasRole(models.RoleAdmin)
}

// Allows reports whether id satisfies the required role. A nil identity
// never passes.
func Allows(id *Identity, required models.Role) bool {
	if id == nil {
		return false
	}
	if required == models.RoleTeamLead && id.TeamLead {
		return true
	}
	return id.HasRole(required)
}

// FromUser builds the identity of a stored user.
func FromUser(user *models.User, teamLead bool) *Identity {
	roles := make([]models.Role, len(user.Roles))
	copy(roles, user.Roles)
	return &Identity{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    roles,
		TeamLead: teamLead,
	}
}
