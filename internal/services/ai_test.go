package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/policy"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/testutil"
)

// newFakeOpenAI serves a single chat completion whose message is content.
func newFakeOpenAI(t *testing.T, content string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "gpt-4o",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]string{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAIService_DraftTasksFromText(t *testing.T) {
	server := newFakeOpenAI(t, "```json\n[{\"description\":\"Book venue\",\"due_date\":\"2030-01-02T15:00:00Z\"},{\"description\":\"Send invites\",\"due_date\":null}]\n```")
	ai := NewAIService("test-key", server.URL+"/v1")

	drafts, err := ai.DraftTasksFromText(context.Background(), "Launch", "book the venue by Jan 2 and send invites")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Book venue", drafts[0].Description)
	require.NotNil(t, drafts[0].DueDate)
	assert.True(t, drafts[0].DueDate.Equal(time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)))
	assert.Nil(t, drafts[1].DueDate)
}

func TestAIService_InvalidResponse(t *testing.T) {
	server := newFakeOpenAI(t, "I could not find any task.")
	ai := NewAIService("test-key", server.URL+"/v1")

	_, err := ai.DraftTasksFromText(context.Background(), "Launch", "hello")
	assert.Error(t, err)
}

func TestTaskService_DraftTasks(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	teams := repository.NewTeamRepository(db)
	projects := repository.NewProjectRepository(db)

	lead := &models.User{Email: "lead@example.com", Username: "lead", PasswordHash: "x", Roles: []models.Role{models.RoleUser}}
	member := &models.User{Email: "member@example.com", Username: "member", PasswordHash: "x", Roles: []models.Role{models.RoleUser}}
	require.NoError(t, users.Create(lead))
	require.NoError(t, users.Create(member))
	team := &models.Team{Name: "Core", TeamLeadID: lead.ID}
	require.NoError(t, teams.Create(team, []string{member.ID}))
	require.NoError(t, projects.Create(&models.Project{Name: "Apollo", TeamID: team.ID}))

	server := newFakeOpenAI(t, `[{"description":"  Plan  ","due_date":"2000-01-01T00:00:00Z"},{"description":"","due_date":null}]`)
	tasks := NewTaskService(repository.NewTaskRepository(db), projects, teams, users, NewAIService("test-key", server.URL+"/v1"))

	drafts, err := tasks.DraftTasks(context.Background(), policy.FromUser(lead, true), DraftTasksInput{ProjectName: "Apollo", Text: "plan things"})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Plan", drafts[0].Description)
	assert.Nil(t, drafts[0].DueDate)

	_, err = tasks.DraftTasks(context.Background(), policy.FromUser(member, false), DraftTasksInput{ProjectName: "Apollo", Text: "plan things"})
	assert.True(t, errors.Is(err, ErrNotTeamLead))

	_, err = tasks.DraftTasks(context.Background(), policy.FromUser(lead, true), DraftTasksInput{ProjectName: "Nope", Text: "plan things"})
	assert.True(t, errors.Is(err, ErrProjectNotFound))

	_, err = tasks.DraftTasks(context.Background(), policy.FromUser(lead, true), DraftTasksInput{ProjectName: "Apollo"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var count int64
	db.Model(&models.Task{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("2030-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDueDate("2030-03-04T09:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 3, 4, 14, 30, 0, 0, time.UTC), got)

	_, err = ParseDueDate("04/03/2030")
	assert.True(t, errors.Is(err, ErrInvalidDueDate))
}
