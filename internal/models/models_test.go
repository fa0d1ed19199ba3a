package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"":            TaskStatusWaiting,
		"waiting":     TaskStatusWaiting,
		"In-Progress": TaskStatusInProgress,
		" completed ": TaskStatusCompleted,
	}
	for input, want := range cases {
		got, err := ParseTaskStatus(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"true", "done", "in progress"} {
		_, err := ParseTaskStatus(input)
		assert.Error(t, err, input)
	}
}

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, TaskStatusWaiting.CanTransitionTo(TaskStatusInProgress))
	assert.True(t, TaskStatusWaiting.CanTransitionTo(TaskStatusCompleted))
	assert.True(t, TaskStatusInProgress.CanTransitionTo(TaskStatusWaiting))
	assert.True(t, TaskStatusInProgress.CanTransitionTo(TaskStatusCompleted))
	assert.True(t, TaskStatusCompleted.CanTransitionTo(TaskStatusInProgress))
	assert.True(t, TaskStatusCompleted.CanTransitionTo(TaskStatusCompleted))

	assert.False(t, TaskStatusCompleted.CanTransitionTo(TaskStatusWaiting))
	assert.False(t, TaskStatusWaiting.CanTransitionTo(TaskStatus("done")))
	assert.False(t, TaskStatus("").CanTransitionTo(TaskStatusWaiting))
}

func TestParseRoles(t *testing.T) {
	roles, err := ParseRoles([]string{"admin", "member", "user", "Team-Lead", "admin"})
	require.NoError(t, err)
	assert.Equal(t, []Role{RoleAdmin, RoleUser, RoleTeamLead}, roles)

	_, err = ParseRoles([]string{"user", "root"})
	assert.Error(t, err)
}

func TestUser_HasRole(t *testing.T) {
	user := User{Roles: []Role{RoleUser, RoleAdmin}}

	assert.True(t, user.IsAdmin())
	assert.True(t, user.HasRole(RoleUser))
	assert.False(t, user.HasRole(RoleTeamLead))
	assert.Equal(t, []string{"user", "admin"}, user.RoleNames())
}

func TestTeam_HasMember(t *testing.T) {
	team := Team{
		TeamLeadID: "lead",
		Members:    []TeamMember{{UserID: "alice"}, {UserID: "bob"}},
	}

	assert.True(t, team.HasMember("lead"))
	assert.True(t, team.HasMember("bob"))
	assert.False(t, team.HasMember("carol"))
}
