package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/teamboard-api/internal/constants"
	"github.com/yukikurage/teamboard-api/internal/dto"
	"github.com/yukikurage/teamboard-api/internal/middleware"
	"github.com/yukikurage/teamboard-api/internal/models"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env handlerTestEnv

	admin   *models.User
	lead    *models.User
	member  *models.User
	other   *models.User
	team    *models.Team
	project *models.Project
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = setupHandlerTestEnv(suite.T())

	suite.admin = suite.env.createUser(suite.T(), "admin", models.RoleAdmin)
	suite.lead = suite.env.createUser(suite.T(), "lead")
	suite.member = suite.env.createUser(suite.T(), "member")
	suite.other = suite.env.createUser(suite.T(), "other")
	suite.team = suite.env.createTeam(suite.T(), "Core", suite.lead, suite.member)
	suite.project = suite.env.createProject(suite.T(), "Apollo", suite.team)
}

func (suite *TaskHandlerTestSuite) taskCount() int64 {
	return suite.env.count(suite.T(), &models.Task{})
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	c, w := newContext(http.MethodPost, "/api/tasks", gin.H{
		"description":    "Write the launch checklist",
		"due_date":       "2030-05-01",
		"AssignedToName": "member",
		"project_name":   "Apollo",
	}, suite.lead)
	suite.env.tasks.CreateTask(c)

	suite.Require().Equal(http.StatusCreated, w.Code)

	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	suite.Equal("Write the launch checklist", task.Description)
	suite.Equal(models.TaskStatusWaiting, task.Status)
	suite.Equal(suite.member.ID, task.AssignedToID)
	suite.Equal("member", task.AssignedToName)
	suite.Equal("Apollo", task.ProjectName)
	suite.Equal(suite.lead.ID, task.CreatedByID)
	suite.Equal("2030-05-01", task.DueDate.Format("2006-01-02"))
	suite.Equal(int64(1), suite.taskCount())
}

func (suite *TaskHandlerTestSuite) TestCreateTask_NotTeamLead() {
	c, w := newContext(http.MethodPost, "/api/tasks", gin.H{
		"description":    "Sneaky",
		"due_date":       "2030-05-01",
		"AssignedToName": "member",
		"project_name":   "Apollo",
	}, suite.member)
	suite.env.tasks.CreateTask(c)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Only the team lead can create tasks", decodeAPIError(suite.T(), w).Message)
	suite.Equal(int64(0), suite.taskCount())
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Invalid() {
	cases := map[string]gin.H{
		"missing description":  {"due_date": "2030-05-01", "AssignedToName": "member", "project_name": "Apollo"},
		"invalid status":       {"description": "x", "due_date": "2030-05-01", "AssignedToName": "member", "project_name": "Apollo", "status": "done"},
		"invalid due date":     {"description": "x", "due_date": "next week", "AssignedToName": "member", "project_name": "Apollo"},
		"assignee not in team": {"description": "x", "due_date": "2030-05-01", "AssignedToName": "other", "project_name": "Apollo"},
	}

	for name, body := range cases {
		c, w := newContext(http.MethodPost, "/api/tasks", body, suite.lead)
		suite.env.tasks.CreateTask(c)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}

	c, w := newContext(http.MethodPost, "/api/tasks", gin.H{
		"description": "x", "due_date": "2030-05-01", "AssignedToName": "ghost", "project_name": "Apollo",
	}, suite.lead)
	suite.env.tasks.CreateTask(c)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Assigned user not found", decodeAPIError(suite.T(), w).Message)

	c, w = newContext(http.MethodPost, "/api/tasks", gin.H{
		"description": "x", "due_date": "2030-05-01", "AssignedToName": "member", "project_name": "Gemini",
	}, suite.lead)
	suite.env.tasks.CreateTask(c)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Project not found", decodeAPIError(suite.T(), w).Message)

	suite.Equal(int64(0), suite.taskCount())
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	suite.env.createTask(suite.T(), suite.project, suite.member, models.TaskStatusWaiting)
	suite.env.createTask(suite.T(), suite.project, suite.member, models.TaskStatusCompleted)
	suite.env.createTask(suite.T(), suite.project, suite.lead, models.TaskStatusWaiting)

	c, w := newContext(http.MethodGet, "/api/tasks?limit=2", nil, suite.member)
	suite.env.tasks.ListTasks(c)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("3", w.Header().Get(constants.TotalCountHeader))

	var page []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Len(page, 2)

	c, w = newContext(http.MethodGet, "/api/tasks?status=waiting&assigned_to_me=true", nil, suite.member)
	suite.env.tasks.ListTasks(c)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("1", w.Header().Get(constants.TotalCountHeader))

	c, w = newContext(http.MethodGet, "/api/tasks?project=Apollo", nil, suite.member)
	suite.env.tasks.ListTasks(c)
	suite.Equal("3", w.Header().Get(constants.TotalCountHeader))

	c, w = newContext(http.MethodGet, "/api/tasks?project=Gemini", nil, suite.member)
	suite.env.tasks.ListTasks(c)
	suite.Equal(http.StatusNotFound, w.Code)

	c, w = newContext(http.MethodGet, "/api/tasks?status=done", nil, suite.member)
	suite.env.tasks.ListTasks(c)
	suite.Equal(http.StatusBadRequest, w.Code)

	c, w = newContext(http.MethodGet, "/api/tasks?assigned_to_me=true", nil, nil)
	suite.env.tasks.ListTasks(c)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask() {
	task := suite.env.createTask(suite.T(), suite.project, suite.member, models.TaskStatusWaiting)

	r := gin.New()
	r.GET("/api/tasks/:id", middleware.LoadTask(suite.env.taskService), suite.env.tasks.GetTask)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/"+task.ID, nil))
	suite.Require().Equal(http.StatusOK, w.Code)

	var got dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(task.ID, got.ID)
	suite.Equal("member", got.AssignedToName)
	suite.Equal("Apollo", got.ProjectName)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/missing", nil))
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask() {
	task := suite.env.createTask(suite.T(), suite.project, suite.member, models.TaskStatusWaiting)

	c, w := newContext(http.MethodPut, "/api/tasks/"+task.ID, gin.H{
		"description": "Updated",
		"status":      "completed",
	}, suite.lead)
	suite.env.tasks.UpdateTask(withParam(c, "id", task.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("Updated", updated.Description)
	suite.Equal(models.TaskStatusCompleted, updated.Status)

	c, w = newContext(http.MethodPut, "/api/tasks/"+task.ID, gin.H{"status": "waiting"}, suite.lead)
	suite.env.tasks.UpdateTask(withParam(c, "id", task.ID))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_OPERATION", decodeAPIError(suite.T(), w).Code)

	c, w = newContext(http.MethodPut, "/api/tasks/"+task.ID, gin.H{"description": "Mine now"}, suite.member)
	suite.env.tasks.UpdateTask(withParam(c, "id", task.ID))
	suite.Equal(http.StatusForbidden, w.Code)

	var stored models.Task
	suite.Require().NoError(suite.env.db.First(&stored, "id = ?", task.ID).Error)
	suite.Equal("Updated", stored.Description)
	suite.Equal(models.TaskStatusCompleted, stored.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskStatus() {
	task := suite.env.createTask(suite.T(), suite.project, suite.member, models.TaskStatusWaiting)

	c, w := newContext(http.MethodPatch, "/api/tasks/"+task.ID+"/status", gin.H{"status": "in-progress"}, suite.member)
	suite.env.tasks.UpdateTaskStatus(withParam(c, "id", task.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal(models.TaskStatusInProgress, updated.Status)

	c, w = newContext(http.MethodPatch, "/api/tasks/"+task.ID+"/status", gin.H{"status": "completed"}, suite.other)
	suite.env.tasks.UpdateTaskStatus(withParam(c, "id", task.ID))
	suite.Equal(http.StatusForbidden, w.Code)

	c, w = newContext(http.MethodPatch, "/api/tasks/"+task.ID+"/status", gin.H{"status": "completed"}, suite.admin)
	suite.env.tasks.UpdateTaskStatus(withParam(c, "id", task.ID))
	suite.Equal(http.StatusOK, w.Code)

	c, w = newContext(http.MethodPatch, "/api/tasks/"+task.ID+"/status", gin.H{"status": "waiting"}, suite.lead)
	suite.env.tasks.UpdateTaskStatus(withParam(c, "id", task.ID))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_OPERATION", decodeAPIError(suite.T(), w).Code)

	c, w = newContext(http.MethodPatch, "/api/tasks/"+task.ID+"/status", gin.H{"status": "true"}, suite.lead)
	suite.env.tasks.UpdateTaskStatus(withParam(c, "id", task.ID))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("INVALID_INPUT", decodeAPIError(suite.T(), w).Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.env.createTask(suite.T(), suite.project, suite.member, models.TaskStatusWaiting)
	suite.Require().NoError(suite.env.db.Create(&models.Comment{Comment: "note", TaskID: task.ID, UserID: suite.member.ID}).Error)

	c, w := newContext(http.MethodDelete, "/api/tasks/"+task.ID, nil, suite.member)
	suite.env.tasks.DeleteTask(withParam(c, "id", task.ID))
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(int64(1), suite.taskCount())

	c, _ = newContext(http.MethodDelete, "/api/tasks/"+task.ID, nil, suite.lead)
	suite.env.tasks.DeleteTask(withParam(c, "id", task.ID))
	suite.Equal(http.StatusNoContent, c.Writer.Status())
	suite.Equal(int64(0), suite.taskCount())
	suite.Equal(int64(0), suite.env.count(suite.T(), &models.Comment{}))

	c, w = newContext(http.MethodDelete, "/api/tasks/"+task.ID, nil, suite.admin)
	suite.env.tasks.DeleteTask(withParam(c, "id", task.ID))
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDraftTasks_WithoutAI() {
	c, w := newContext(http.MethodPost, "/api/tasks/draft", gin.H{
		"project_name": "Apollo",
		"text":         "ship the thing by friday",
	}, suite.lead)
	suite.env.tasks.DraftTasks(c)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.Equal("SERVICE_UNAVAILABLE", decodeAPIError(suite.T(), w).Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
