package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/constants"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/models"
	"github.com/yukikurage/teamboard-api/internal/services"
)

// LoadTask loads the task named by the :id parameter with its assignee and
// project and stores it in context
func LoadTask(taskService *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := taskService.GetTask(c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				_ = c.Error(err)
				apierrors.InternalError(c, "Failed to retrieve task")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Next()
	}
}

// GetTask retrieves the task stored by LoadTask
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}
