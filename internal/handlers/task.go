package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/constants"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/middleware"
	"github.com/yukikurage/teamboard-api/internal/services"
	"github.com/yukikurage/teamboard-api/internal/utils"
)

// TaskHandler serves task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	registerValidators()
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns tasks, optionally filtered by project, status and
// assignment to the caller. The unpaginated total is sent in the
// X-Total-Count header.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	assignedToMe := false
	if raw := c.Query("assigned_to_me"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to_me")
			return
		}
		assignedToMe = value
	}

	identity, _ := middleware.GetIdentity(c)
	tasks, total, err := h.taskService.ListTasks(identity, services.ListTasksInput{
		Project:      c.Query("project"),
		Status:       c.Query("status"),
		AssignedToMe: assignedToMe,
		Pagination:   utils.GetPaginationParams(c),
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.Header(constants.TotalCountHeader, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task by ID
// Task is already loaded with relations by LoadTask middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a task; only the project's team lead may do so
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Description    string `json:"description" binding:"required"`
		DueDate        string `json:"due_date" binding:"required"`
		AssignedToName string `json:"AssignedToName" binding:"required"`
		ProjectName    string `json:"project_name" binding:"required"`
		Status         string `json:"status" binding:"omitempty,taskstatus"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, _ := middleware.GetIdentity(c)
	task, err := h.taskService.CreateTask(identity, services.CreateTaskInput{
		Description:    req.Description,
		DueDate:        req.DueDate,
		AssignedToName: req.AssignedToName,
		ProjectName:    req.ProjectName,
		Status:         req.Status,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Description    *string `json:"description"`
		DueDate        *string `json:"due_date"`
		AssignedToName *string `json:"AssignedToName"`
		ProjectName    *string `json:"project_name"`
		Status         *string `json:"status" binding:"omitempty,taskstatus"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, _ := middleware.GetIdentity(c)
	task, err := h.taskService.UpdateTask(identity, c.Param("id"), services.UpdateTaskInput{
		Description:    req.Description,
		DueDate:        req.DueDate,
		AssignedToName: req.AssignedToName,
		ProjectName:    req.ProjectName,
		Status:         req.Status,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTaskStatus moves a task to another status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required,taskstatus"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, _ := middleware.GetIdentity(c)
	task, err := h.taskService.UpdateTaskStatus(identity, c.Param("id"), req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and its comments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	if err := h.taskService.DeleteTask(identity, c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DraftTasks uses AI to suggest tasks from free text. Nothing is stored.
func (h *TaskHandler) DraftTasks(c *gin.Context) {
	type DraftTasksRequest struct {
		ProjectName string `json:"project_name" binding:"required"`
		Text        string `json:"text" binding:"required"`
	}

	var req DraftTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, _ := middleware.GetIdentity(c)
	drafts, err := h.taskService.DraftTasks(c.Request.Context(), identity, services.DraftTasksInput{
		ProjectName: req.ProjectName,
		Text:        req.Text,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskDraftListResponse{Tasks: drafts})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, "Not authenticated")
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidDueDate):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAssigneeNotInTeam):
		apierrors.BadRequest(c, "Assigned user is not a member of the project's team")
	case errors.Is(err, services.ErrInvalidTransition):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrNotTeamLead):
		apierrors.Forbidden(c, "Only the team lead can create tasks")
	case errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, "You do not have permission to modify this task")
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, "Assigned user not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrTeamNotFound):
		apierrors.NotFound(c, "Team not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	default:
		respondInternalError(c, err)
	}
}
