package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "PERMISSION_DENIED", CodeOf(ErrPermissionDenied))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))

	// Код извлекается и из обернутой ошибки
	wrapped := fmt.Errorf("assign template: %w", ErrNoTutorAssigned)
	assert.Equal(t, "NO_TUTOR_ASSIGNED", CodeOf(wrapped))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNoSuchNewbie))
	assert.True(t, IsNotFound(ErrNoSuchSection))
	assert.False(t, IsNotFound(ErrPermissionDenied))
	assert.False(t, IsNotFound(ErrAlreadyUsed))
	assert.False(t, IsNotFound(errors.New("plain")))
}
