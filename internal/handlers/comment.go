package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/middleware"
	"github.com/yukikurage/teamboard-api/internal/services"
)

// CommentHandler serves comment endpoints.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment adds a comment by the current user to a task
func (h *CommentHandler) CreateComment(c *gin.Context) {
	type CreateCommentRequest struct {
		Comment string `json:"comment" binding:"required"`
		TaskID  string `json:"taskId" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, _ := middleware.GetIdentity(c)
	comment, err := h.commentService.CreateComment(identity, services.CreateCommentInput{
		Comment: req.Comment,
		TaskID:  req.TaskID,
	})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments returns the comments of a task, oldest first
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.commentService.ListComments(c.Param("taskId"))
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTOs(comments))
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, "Not authenticated")
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.BadRequest(c, err.Error())
	default:
		respondInternalError(c, err)
	}
}
