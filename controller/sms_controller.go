package controller

import (
	"context"
	"disasterlink-backend/models"
	"disasterlink-backend/services"
	"disasterlink-backend/utils/logger"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type SMSController struct {
	ctx        context.Context
	smsService services.SMSServiceInterface
	logger     logger.Logger
	validator  *validator.Validate
}

func NewSMSController(ctx context.Context, smsService services.SMSServiceInterface, log logger.Logger) *SMSController {
	return &SMSController{
		ctx:        ctx,
		smsService: smsService,
		logger:     log,
		validator:  validator.New(),
	}
}

// Receive handles POST /api/v1/sms/receive, the inbound-message webhook.
func (h *SMSController) Receive(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "unreadable payload")
		return
	}

	reply, err := h.smsService.ReceiveWebhook(h.ctx, payload)
	if err != nil {
		h.logger.Error("Failed to process inbound SMS", err)
		respondError(c, err, "Failed to process inbound SMS")
		return
	}

	respondSuccess(c, http.StatusOK, "Message processed", gin.H{"reply": reply})
}

// Next handles GET /api/v1/sms/next for the SMS gateway poller. Answers 204
// when the outbox is drained so the poller can idle cheaply.
func (h *SMSController) Next(c *gin.Context) {
	msg, err := h.smsService.NextOutbound(h.ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		respondError(c, err, "Failed to fetch next message")
		return
	}

	respondSuccess(c, http.StatusOK, "Message dequeued", msg)
}

// Queue handles POST /api/v1/sms/queue
func (h *SMSController) Queue(c *gin.Context) {
	var req models.QueueSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, formatValidationErrors(err))
		return
	}

	msg, err := h.smsService.QueueMessage(h.ctx, &req)
	if err != nil {
		respondError(c, err, "Failed to queue message")
		return
	}

	respondSuccess(c, http.StatusCreated, "Message queued", msg)
}
