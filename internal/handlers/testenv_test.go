package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/teamboard-api/internal/auth"
	"github.com/yukikurage/teamboard-api/internal/constants"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/policy"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/services"
	"github.com/yukikurage/teamboard-api/internal/testutil"
	"gorm.io/gorm"
)

type handlerTestEnv struct {
	db       *gorm.DB
	tokens   *auth.TokenManager
	auth     *AuthHandler
	teams    *TeamHandler
	projects *ProjectHandler
	tasks    *TaskHandler
	comments *CommentHandler

	taskService *services.TaskService
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	taskService := services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, nil)

	return handlerTestEnv{
		db:          db,
		tokens:      tokens,
		auth:        NewAuthHandler(services.NewAuthService(userRepo, teamRepo, tokens), tokens.TTL(), false),
		teams:       NewTeamHandler(services.NewTeamService(teamRepo, userRepo)),
		projects:    NewProjectHandler(services.NewProjectService(projectRepo, teamRepo)),
		tasks:       NewTaskHandler(taskService),
		comments:    NewCommentHandler(services.NewCommentService(repository.NewCommentRepository(db))),
		taskService: taskService,
	}
}

func (env handlerTestEnv) createUser(t *testing.T, username string, roles ...models.Role) *models.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []models.Role{models.RoleUser}
	}
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: hash,
		Roles:        roles,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env handlerTestEnv) createTeam(t *testing.T, name string, lead *models.User, members ...*models.User) *models.Team {
	t.Helper()
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	team := &models.Team{Name: name, TeamLeadID: lead.ID}
	require.NoError(t, repository.NewTeamRepository(env.db).Create(team, ids))
	return team
}

func (env handlerTestEnv) createProject(t *testing.T, name string, team *models.Team) *models.Project {
	t.Helper()
	project := &models.Project{Name: name, TeamID: team.ID}
	require.NoError(t, env.db.Create(project).Error)
	return project
}

func (env handlerTestEnv) createTask(t *testing.T, project *models.Project, assignee *models.User, status models.TaskStatus) *models.Task {
	t.Helper()
	task := &models.Task{
		Description:  "Test Description",
		DueDate:      time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       status,
		AssignedToID: assignee.ID,
		ProjectID:    project.ID,
	}
	require.NoError(t, env.db.Create(task).Error)
	return task
}

func (env handlerTestEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(model).Count(&n).Error)
	return n
}

// newContext builds a test context. A non-nil user is attached as the
// authenticated identity, the way RequireAuth does.
func newContext(method, url string, body interface{}, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyIdentity, policy.FromUser(user, false))
		c.Set(constants.ContextKeyUserID, user.ID)
	}
	return c, w
}

func withParam(c *gin.Context, key, value string) *gin.Context {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
	return c
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
