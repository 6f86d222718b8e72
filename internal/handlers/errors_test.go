package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"onboard/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrPermissionDenied, http.StatusForbidden},
		{apperrors.ErrNoSuchNewbie, http.StatusNotFound},
		{apperrors.ErrNoSuchSection, http.StatusNotFound},
		{apperrors.ErrAlreadyUsed, http.StatusConflict},
		{apperrors.ErrTrainingAssigned, http.StatusConflict},
		{apperrors.ErrTagUsed, http.StatusConflict},
		{apperrors.ErrDuplicateName, http.StatusConflict},
		{apperrors.ErrUnavailable, http.StatusServiceUnavailable},
		{apperrors.ErrInvalidDivision, http.StatusBadRequest},
		{apperrors.ErrInvalidAnswerCount, http.StatusBadRequest},
		{apperrors.ErrNoTutorAssigned, http.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	respondError(c, apperrors.ErrTrainingAssigned)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"TRAINING_ASSIGNED"}`, rec.Body.String())

	// Ошибка без кода - внутренняя
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	respondError(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
