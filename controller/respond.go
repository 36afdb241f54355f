package controller

import (
	"disasterlink-backend/models"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func respondSuccess(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, models.APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func respondBadRequest(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, models.APIResponse{
		Status:  "error",
		Code:    http.StatusBadRequest,
		Message: "Invalid request",
		Error: &models.APIError{
			Type:    "ValidationError",
			Details: details,
		},
	})
}

// respondError maps the domain error taxonomy onto HTTP. A scoring round
// that found no candidate is an expected steady state and answers 200 with
// an empty result rather than an error envelope.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, models.ErrNoCandidate):
		respondSuccess(c, http.StatusOK, err.Error(), nil)
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.APIResponse{
			Status:  "error",
			Code:    http.StatusNotFound,
			Message: message,
			Error:   &models.APIError{Type: "NotFoundError", Details: err.Error()},
		})
	case errors.Is(err, models.ErrInvalidState):
		c.JSON(http.StatusConflict, models.APIResponse{
			Status:  "error",
			Code:    http.StatusConflict,
			Message: message,
			Error:   &models.APIError{Type: "InvalidStateError", Details: err.Error()},
		})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, models.APIResponse{
			Status:  "error",
			Code:    http.StatusConflict,
			Message: message,
			Error:   &models.APIError{Type: "ConflictError", Details: err.Error()},
		})
	default:
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: message,
			Error:   &models.APIError{Type: "InternalError", Details: err.Error()},
		})
	}
}

// formatValidationErrors formats validation errors into readable messages
func formatValidationErrors(err error) string {
	var errorMessages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				errorMessages = append(errorMessages, fieldError.Field()+" is required")
			case "min":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters/items")
			case "max":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters/items")
			case "oneof":
				errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
			case "gte", "lte", "gt":
				errorMessages = append(errorMessages, fieldError.Field()+" is out of range")
			case "email":
				errorMessages = append(errorMessages, fieldError.Field()+" must be a valid email address")
			default:
				errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
			}
		}
	}

	if len(errorMessages) == 0 {
		return err.Error()
	}
	return strings.Join(errorMessages, "; ")
}
