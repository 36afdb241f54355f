package controller

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/services"
	"disasterlink-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type TeamController struct {
	ctx         context.Context
	teamService services.TeamServiceInterface
	logger      logger.Logger
	validator   *validator.Validate
}

func NewTeamController(ctx context.Context, teamService services.TeamServiceInterface, log logger.Logger) *TeamController {
	return &TeamController{
		ctx:         ctx,
		teamService: teamService,
		logger:      log,
		validator:   validator.New(),
	}
}

// CreateTeam handles POST /api/v1/teams
func (h *TeamController) CreateTeam(c *gin.Context) {
	var req models.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON:", err)
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	team, err := h.teamService.CreateTeam(h.ctx, &req)
	if err != nil {
		h.logger.Error("Failed to create team", err)
		respondError(c, err, "Failed to create team")
		return
	}

	respondSuccess(c, http.StatusCreated, "Team created successfully", team)
}

// GetTeam handles GET /api/v1/teams/:id
func (h *TeamController) GetTeam(c *gin.Context) {
	team, err := h.teamService.GetTeam(h.ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get team")
		return
	}

	respondSuccess(c, http.StatusOK, "Team retrieved successfully", team)
}

// GetTeams handles GET /api/v1/teams?status=
func (h *TeamController) GetTeams(c *gin.Context) {
	filter := &models.TeamFilter{
		Status:   models.TeamStatus(c.Query("status")),
		LeaderID: c.Query("leaderId"),
	}

	teams, err := h.teamService.GetTeams(h.ctx, filter)
	if err != nil {
		respondError(c, err, "Failed to list teams")
		return
	}

	respondSuccess(c, http.StatusOK, "Teams retrieved successfully", teams)
}

// UpdateTeam handles PATCH /api/v1/teams/:id
func (h *TeamController) UpdateTeam(c *gin.Context) {
	var req models.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	team, err := h.teamService.UpdateTeam(h.ctx, c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update team")
		return
	}

	respondSuccess(c, http.StatusOK, "Team updated successfully", team)
}

// GetRoster handles GET /api/v1/teams/:id/members
func (h *TeamController) GetRoster(c *gin.Context) {
	roster, err := h.teamService.GetRoster(h.ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get team roster")
		return
	}

	respondSuccess(c, http.StatusOK, "Team roster retrieved successfully", roster)
}

// AddMember handles POST /api/v1/teams/:id/members/:memberId
func (h *TeamController) AddMember(c *gin.Context) {
	team, err := h.teamService.AddMember(h.ctx, c.Param("id"), c.Param("memberId"))
	if err != nil {
		respondError(c, err, "Failed to add team member")
		return
	}

	respondSuccess(c, http.StatusOK, "Team member added successfully", team)
}

// RemoveMember handles DELETE /api/v1/teams/:id/members/:memberId
func (h *TeamController) RemoveMember(c *gin.Context) {
	team, err := h.teamService.RemoveMember(h.ctx, c.Param("id"), c.Param("memberId"))
	if err != nil {
		respondError(c, err, "Failed to remove team member")
		return
	}

	respondSuccess(c, http.StatusOK, "Team member removed successfully", team)
}

// DeleteTeam handles DELETE /api/v1/teams/:id
func (h *TeamController) DeleteTeam(c *gin.Context) {
	if err := h.teamService.DeleteTeam(h.ctx, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete team")
		return
	}

	respondSuccess(c, http.StatusOK, "Team deleted successfully", nil)
}
