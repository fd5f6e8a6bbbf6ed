package handler

import (
	"errors"
	"net/http"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Коды ошибок в ответах API
const (
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeRequestInProgress = "REQUEST_IN_PROGRESS"
	CodeInternal          = "INTERNAL"
)

// respondError переводит ошибку сервиса в HTTP ответ. Текст внутренних
// ошибок уходит только в лог
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		abortUnauthenticated(c, "Authentication required")
	case errors.Is(err, service.ErrForbidden):
		writeError(c, http.StatusForbidden, "You can only modify your own content", CodeForbidden)
	case errors.Is(err, service.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, err.Error(), CodeInvalidInput)
	case errors.Is(err, service.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error(), CodeNotFound)
	case errors.Is(err, service.ErrConflict):
		writeError(c, http.StatusConflict, err.Error(), CodeConflict)
	default:
		logger.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("route", c.FullPath()).
			Msg("Request failed")
		writeError(c, http.StatusInternalServerError, "Internal server error", CodeInternal)
	}
}

func writeError(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, entity.ErrorResponse{Error: message, Code: code})
}

func invalidBody(c *gin.Context) {
	writeError(c, http.StatusBadRequest, "Invalid request body", CodeInvalidInput)
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
