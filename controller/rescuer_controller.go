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

type RescuerController struct {
	ctx            context.Context
	rescuerService services.RescuerServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewRescuerController(ctx context.Context, rescuerService services.RescuerServiceInterface, log logger.Logger) *RescuerController {
	return &RescuerController{
		ctx:            ctx,
		rescuerService: rescuerService,
		logger:         log,
		validator:      validator.New(),
	}
}

// CreateRescuer handles POST /api/v1/rescuers
func (h *RescuerController) CreateRescuer(c *gin.Context) {
	var req models.CreateRescuerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	rescuer, err := h.rescuerService.CreateRescuer(h.ctx, &req)
	if err != nil {
		h.logger.Error("Failed to create rescuer", err)
		respondError(c, err, "Failed to create rescuer")
		return
	}

	respondSuccess(c, http.StatusCreated, "Rescuer created successfully", rescuer)
}

// GetRescuer handles GET /api/v1/rescuers/:id
func (h *RescuerController) GetRescuer(c *gin.Context) {
	rescuer, err := h.rescuerService.GetRescuer(h.ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get rescuer")
		return
	}

	respondSuccess(c, http.StatusOK, "Rescuer retrieved successfully", rescuer)
}

// GetRescuers handles GET /api/v1/rescuers?teamId=&available=
func (h *RescuerController) GetRescuers(c *gin.Context) {
	filter := &models.RescuerFilter{
		TeamID:        c.Query("teamId"),
		AvailableOnly: c.Query("available") == "true",
	}

	rescuers, err := h.rescuerService.GetRescuers(h.ctx, filter)
	if err != nil {
		respondError(c, err, "Failed to list rescuers")
		return
	}

	respondSuccess(c, http.StatusOK, "Rescuers retrieved successfully", rescuers)
}

// UpdateRescuer handles PATCH /api/v1/rescuers/:id
func (h *RescuerController) UpdateRescuer(c *gin.Context) {
	var req models.UpdateRescuerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	rescuer, err := h.rescuerService.UpdateRescuer(h.ctx, c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update rescuer")
		return
	}

	respondSuccess(c, http.StatusOK, "Rescuer updated successfully", rescuer)
}

// DeleteRescuer handles DELETE /api/v1/rescuers/:id
func (h *RescuerController) DeleteRescuer(c *gin.Context) {
	if err := h.rescuerService.DeleteRescuer(h.ctx, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete rescuer")
		return
	}

	respondSuccess(c, http.StatusOK, "Rescuer deleted successfully", nil)
}
