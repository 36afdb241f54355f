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

type VictimController struct {
	ctx           context.Context
	victimService services.VictimServiceInterface
	logger        logger.Logger
	validator     *validator.Validate
}

func NewVictimController(ctx context.Context, victimService services.VictimServiceInterface, log logger.Logger) *VictimController {
	return &VictimController{
		ctx:           ctx,
		victimService: victimService,
		logger:        log,
		validator:     validator.New(),
	}
}

// RegisterVictim handles POST /api/v1/victims
func (h *VictimController) RegisterVictim(c *gin.Context) {
	var victim models.Victim
	if err := c.ShouldBindJSON(&victim); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if victim.PhoneNumber == "" {
		respondBadRequest(c, "phoneNumber is required")
		return
	}

	created, err := h.victimService.RegisterVictim(h.ctx, &victim)
	if err != nil {
		h.logger.Error("Failed to register victim", err)
		respondError(c, err, "Failed to register victim")
		return
	}

	respondSuccess(c, http.StatusCreated, "Victim registered successfully", created)
}

// GetVictim handles GET /api/v1/victims/:phone
func (h *VictimController) GetVictim(c *gin.Context) {
	victim, err := h.victimService.GetVictim(h.ctx, c.Param("phone"))
	if err != nil {
		respondError(c, err, "Failed to get victim")
		return
	}

	respondSuccess(c, http.StatusOK, "Victim retrieved successfully", victim)
}

// GetVictims handles GET /api/v1/victims?status=&assignedTeamId=&isActive=
func (h *VictimController) GetVictims(c *gin.Context) {
	filter := &models.VictimFilter{
		Status:         models.VictimStatus(c.Query("status")),
		AssignedTeamID: c.Query("assignedTeamId"),
		City:           c.Query("city"),
	}
	if raw := c.Query("isActive"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}

	victims, err := h.victimService.GetVictims(h.ctx, filter)
	if err != nil {
		respondError(c, err, "Failed to list victims")
		return
	}

	respondSuccess(c, http.StatusOK, "Victims retrieved successfully", victims)
}

// UpdateStatus handles PATCH /api/v1/victims/:phone/status
func (h *VictimController) UpdateStatus(c *gin.Context) {
	var req models.UpdateVictimStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	victim, err := h.victimService.UpdateStatus(h.ctx, c.Param("phone"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update victim status")
		return
	}

	respondSuccess(c, http.StatusOK, "Victim status updated", victim)
}

// UpdateLocation handles PATCH /api/v1/victims/:phone/location
func (h *VictimController) UpdateLocation(c *gin.Context) {
	var req models.UpdateVictimLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	victim, err := h.victimService.UpdateLocation(h.ctx, c.Param("phone"), &req)
	if err != nil {
		respondError(c, err, "Failed to update victim location")
		return
	}

	respondSuccess(c, http.StatusOK, "Victim location updated", victim)
}
