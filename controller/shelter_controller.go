package controller

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/services"
	"disasterlink-backend/utils/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ShelterController struct {
	ctx            context.Context
	shelterService services.ShelterServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewShelterController(ctx context.Context, shelterService services.ShelterServiceInterface, log logger.Logger) *ShelterController {
	return &ShelterController{
		ctx:            ctx,
		shelterService: shelterService,
		logger:         log,
		validator:      validator.New(),
	}
}

// CreateShelter handles POST /api/v1/shelters
func (h *ShelterController) CreateShelter(c *gin.Context) {
	var req models.CreateShelterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	shelter, err := h.shelterService.CreateShelter(h.ctx, &req)
	if err != nil {
		h.logger.Error("Failed to create shelter", err)
		respondError(c, err, "Failed to create shelter")
		return
	}

	respondSuccess(c, http.StatusCreated, "Shelter created successfully", shelter)
}

// GetShelter handles GET /api/v1/shelters/:id
func (h *ShelterController) GetShelter(c *gin.Context) {
	shelter, err := h.shelterService.GetShelter(h.ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get shelter")
		return
	}

	respondSuccess(c, http.StatusOK, "Shelter retrieved successfully", shelter)
}

// GetShelters handles GET /api/v1/shelters
func (h *ShelterController) GetShelters(c *gin.Context) {
	shelters, err := h.shelterService.GetShelters(h.ctx)
	if err != nil {
		respondError(c, err, "Failed to list shelters")
		return
	}

	respondSuccess(c, http.StatusOK, "Shelters retrieved successfully", shelters)
}

// NearestShelters handles GET /api/v1/shelters/nearest?latitude=&longitude=&limit=
func (h *ShelterController) NearestShelters(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("longitude"), 64)
	if errLat != nil || errLon != nil {
		respondBadRequest(c, "latitude and longitude query parameters are required")
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	nearest, err := h.shelterService.NearestShelters(h.ctx, lat, lon, limit)
	if err != nil {
		respondError(c, err, "Failed to find shelters")
		return
	}

	respondSuccess(c, http.StatusOK, "Nearest shelters retrieved", nearest)
}

// UpdateShelter handles PATCH /api/v1/shelters/:id
func (h *ShelterController) UpdateShelter(c *gin.Context) {
	var req models.UpdateShelterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	shelter, err := h.shelterService.UpdateShelter(h.ctx, c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update shelter")
		return
	}

	respondSuccess(c, http.StatusOK, "Shelter updated successfully", shelter)
}

// DeleteShelter handles DELETE /api/v1/shelters/:id
func (h *ShelterController) DeleteShelter(c *gin.Context) {
	if err := h.shelterService.DeleteShelter(h.ctx, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete shelter")
		return
	}

	respondSuccess(c, http.StatusOK, "Shelter deleted successfully", nil)
}

// Checkin handles POST /api/v1/shelters/:id/checkin
func (h *ShelterController) Checkin(c *gin.Context) {
	var req models.ShelterCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	shelter, err := h.shelterService.CheckinVictim(h.ctx, c.Param("id"), req.PhoneNumber)
	if err != nil {
		respondError(c, err, "Check-in failed")
		return
	}

	respondSuccess(c, http.StatusOK, "Victim checked in", shelter)
}
