package handlers

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/models"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by request structs:
//
//	taskstatus  the value parses as a task status
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
			_, err := models.ParseTaskStatus(fl.Field().String())
			return err == nil
		})
	})
}

// respondBindError reports a request body that failed to bind, listing the
// failed validation tag per field when there is one.
func respondBindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	details := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = fe.Tag()
	}
	apierrors.BadRequestWithDetails(c, "Invalid request body", details)
}

// respondInternalError records err for the request log and sends a 500
// with a fixed message.
func respondInternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	apierrors.InternalError(c, "Internal server error")
}
