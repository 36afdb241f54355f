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

// SweepStatusReader exposes the persisted record of the last background
// sweep. Implemented by the worker's status manager.
type SweepStatusReader interface {
	LoadStatus() (*models.SweepExecution, error)
}

type AssignmentController struct {
	ctx          context.Context
	coordinator  services.CoordinatorInterface
	statusReader SweepStatusReader
	logger       logger.Logger
	validator    *validator.Validate
}

func NewAssignmentController(ctx context.Context, coordinator services.CoordinatorInterface, statusReader SweepStatusReader, log logger.Logger) *AssignmentController {
	return &AssignmentController{
		ctx:          ctx,
		coordinator:  coordinator,
		statusReader: statusReader,
		logger:       log,
		validator:    validator.New(),
	}
}

// AssignTeam handles POST /api/v1/teams/:id/assign
func (h *AssignmentController) AssignTeam(c *gin.Context) {
	var req models.AssignTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	result, err := h.coordinator.AssignTeamToLocation(h.ctx, c.Param("id"), req.Latitude, req.Longitude)
	if err != nil {
		h.logger.Error("Failed to assign team", err)
		respondError(c, err, "Failed to assign team")
		return
	}

	respondSuccess(c, http.StatusOK, "Team assigned successfully", result)
}

// UnassignTeam handles POST /api/v1/teams/:id/unassign
func (h *AssignmentController) UnassignTeam(c *gin.Context) {
	result, err := h.coordinator.UnassignTeam(h.ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to unassign team")
		return
	}

	respondSuccess(c, http.StatusOK, "Team unassigned successfully", result)
}

// RunSweep handles POST /api/v1/assign/sweep
func (h *AssignmentController) RunSweep(c *gin.Context) {
	result, err := h.coordinator.AutoAssignSweep(h.ctx)
	if err != nil {
		h.logger.Error("Sweep failed", err)
		respondError(c, err, "Sweep failed")
		return
	}

	respondSuccess(c, http.StatusOK, "Sweep completed", result)
}

// SweepStatus handles GET /api/v1/assign/sweep/status
func (h *AssignmentController) SweepStatus(c *gin.Context) {
	execution, err := h.statusReader.LoadStatus()
	if err != nil {
		c.JSON(http.StatusNotFound, models.APIResponse{
			Status:  "error",
			Code:    http.StatusNotFound,
			Message: "No sweep has run yet",
			Error:   &models.APIError{Type: "NotFoundError", Details: err.Error()},
		})
		return
	}

	respondSuccess(c, http.StatusOK, "Sweep status retrieved", execution)
}

// AutoAssignIncident handles POST /api/v1/incidents/:id/auto-assign
func (h *AssignmentController) AutoAssignIncident(c *gin.Context) {
	assignment, err := h.coordinator.AutoAssignIncident(h.ctx, c.Param("id"))
	if err != nil {
		h.logger.Error("Incident auto-assignment failed", err)
		respondError(c, err, "Incident auto-assignment failed")
		return
	}

	respondSuccess(c, http.StatusOK, "Incident assigned successfully", assignment)
}
