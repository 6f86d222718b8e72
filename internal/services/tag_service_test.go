package services

import (
	"testing"

	"onboard/internal/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDivisionDuplicateNameIgnoresCase(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tags.CreateDivision(env.admin.ID, "Sales")
	require.NoError(t, err)

	_, err = env.tags.CreateDivision(env.admin.ID, "SALES")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)

	_, err = env.tags.CreateDivision(env.admin.ID, "sales")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)

	// Одинаковое имя у города и подразделения конфликтом не считается
	_, err = env.tags.CreateCity(env.admin.ID, "Sales")
	assert.NoError(t, err)
}

func TestCreateDivisionRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tags.CreateDivision(env.hrbp.ID, "Finance")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = env.tags.CreateDivision(uuid.New(), "Finance")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDeleteDivision(t *testing.T) {
	env := newTestEnv(t)

	free := env.seedDivision(t, "Finance")
	require.NoError(t, env.tags.DeleteDivision(env.admin.ID, free.ID))

	err := env.tags.DeleteDivision(env.admin.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrInvalidDivision)

	// На стандартное подразделение ссылаются пользователи и область прав HRBP
	err = env.tags.DeleteDivision(env.admin.ID, env.division.ID)
	assert.ErrorIs(t, err, apperrors.ErrTagUsed)
}

func TestDeleteDivisionReferencedByCatalog(t *testing.T) {
	env := newTestEnv(t)

	division := env.seedDivision(t, "Legal")
	_, err := env.catalog.CreateTask(env.admin.ID, ItemInput{Title: "task", DivisionID: &division.ID})
	require.NoError(t, err)

	err = env.tags.DeleteDivision(env.admin.ID, division.ID)
	assert.ErrorIs(t, err, apperrors.ErrTagUsed)
}

func TestDeleteCity(t *testing.T) {
	env := newTestEnv(t)

	city, err := env.tags.CreateCity(env.admin.ID, "Berlin")
	require.NoError(t, err)

	used, err := env.tags.CreateCity(env.admin.ID, "Munich")
	require.NoError(t, err)
	_, err = env.userSvc.CreateUser(env.admin.ID, CreateUserInput{
		Username: "resident",
		Password: "secret",
		Role:     "newbie",
		CityID:   &used.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.tags.DeleteCity(env.admin.ID, city.ID))

	err = env.tags.DeleteCity(env.admin.ID, used.ID)
	assert.ErrorIs(t, err, apperrors.ErrTagUsed)

	err = env.tags.DeleteCity(env.admin.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrInvalidCity)
}
