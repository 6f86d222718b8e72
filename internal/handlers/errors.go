package handlers

import (
	"errors"
	"net/http"

	"onboard/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError отображает категориальную ошибку сервиса в HTTP-ответ.
// Код ошибки отдается клиенту как есть; все прочее - 500.
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	if code == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(statusFor(err), gin.H{"error": code})
}

// statusFor подбирает HTTP-статус по классу ошибки
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrAlreadyUsed),
		errors.Is(err, apperrors.ErrTrainingAssigned),
		errors.Is(err, apperrors.ErrTagUsed),
		errors.Is(err, apperrors.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		// INVALID_* и прочие нарушения предусловий
		return http.StatusBadRequest
	}
}
