package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/dto"
	apierrors "github.com/yukikurage/teamboard-api/internal/errors"
	"github.com/yukikurage/teamboard-api/internal/services"
)

// TeamHandler serves team endpoints.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

type teamRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	TeamLead    string   `json:"team_lead" binding:"required"`
	Members     []string `json:"members"`
}

func (r teamRequest) input() services.TeamInput {
	return services.TeamInput{
		Name:        r.Name,
		Description: r.Description,
		TeamLead:    r.TeamLead,
		Members:     r.Members,
	}
}

// CreateTeam creates a team
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	team, err := h.teamService.CreateTeam(req.input())
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListTeams returns all teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams()
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTOs(teams))
}

// GetTeam returns a team by ID
func (h *TeamHandler) GetTeam(c *gin.Context) {
	team, err := h.teamService.GetTeam(c.Param("id"))
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// UpdateTeam overwrites a team
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	team, err := h.teamService.UpdateTeam(c.Param("id"), req.input())
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// DeleteTeam deletes a team without projects
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	if err := h.teamService.DeleteTeam(c.Param("id")); err != nil {
		respondTeamError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTeamError(c *gin.Context, err error) {
	var missingMember *services.MemberNotFoundError

	switch {
	case errors.Is(err, services.ErrInvalidInput):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNameTaken):
		apierrors.Conflict(c, "Team name already exists")
	case errors.Is(err, services.ErrTeamHasProjects):
		apierrors.Conflict(c, "Cannot delete team with associated projects")
	case errors.Is(err, services.ErrTeamLeadNotFound):
		apierrors.NotFound(c, "Team lead not found")
	case errors.As(err, &missingMember):
		apierrors.NotFound(c, "Member not found: "+missingMember.Username)
	case errors.Is(err, services.ErrTeamNotFound):
		apierrors.NotFound(c, "Team not found")
	default:
		respondInternalError(c, err)
	}
}
