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

type IncidentController struct {
	ctx             context.Context
	incidentService services.IncidentServiceInterface
	logger          logger.Logger
	validator       *validator.Validate
}

func NewIncidentController(ctx context.Context, incidentService services.IncidentServiceInterface, log logger.Logger) *IncidentController {
	return &IncidentController{
		ctx:             ctx,
		incidentService: incidentService,
		logger:          log,
		validator:       validator.New(),
	}
}

// CreateIncident handles POST /api/v1/incidents
func (h *IncidentController) CreateIncident(c *gin.Context) {
	var req models.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	incident, err := h.incidentService.CreateIncident(h.ctx, &req)
	if err != nil {
		h.logger.Error("Failed to create incident", err)
		respondError(c, err, "Failed to create incident")
		return
	}

	respondSuccess(c, http.StatusCreated, "Incident created successfully", incident)
}

// GetIncident handles GET /api/v1/incidents/:id
func (h *IncidentController) GetIncident(c *gin.Context) {
	incident, err := h.incidentService.GetIncident(h.ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get incident")
		return
	}

	respondSuccess(c, http.StatusOK, "Incident retrieved successfully", incident)
}

// GetIncidents handles GET /api/v1/incidents?status=&type=&severity=
func (h *IncidentController) GetIncidents(c *gin.Context) {
	filter := &models.IncidentFilter{
		Status:   models.IncidentStatus(c.Query("status")),
		Type:     models.IncidentType(c.Query("type")),
		Severity: models.IncidentSeverity(c.Query("severity")),
	}

	incidents, err := h.incidentService.GetIncidents(h.ctx, filter)
	if err != nil {
		respondError(c, err, "Failed to list incidents")
		return
	}

	respondSuccess(c, http.StatusOK, "Incidents retrieved successfully", incidents)
}

// UpdateIncident handles PATCH /api/v1/incidents/:id
func (h *IncidentController) UpdateIncident(c *gin.Context) {
	var req models.UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	incident, err := h.incidentService.UpdateIncident(h.ctx, c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update incident")
		return
	}

	respondSuccess(c, http.StatusOK, "Incident updated successfully", incident)
}
