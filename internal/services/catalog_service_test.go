package services

import (
	"testing"

	"onboard/internal/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExamValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.CreateExam(env.admin.ID, ExamInput{Title: "e", PassThreshold: 1.5})
	assert.ErrorIs(t, err, apperrors.ErrInvalidThreshold)

	_, err = env.catalog.CreateExam(env.admin.ID, ExamInput{
		Title:         "e",
		PassThreshold: 0.5,
		Questions:     []QuestionInput{{Text: "q", Options: []string{"only one"}, Correct: 0}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuestion)

	_, err = env.catalog.CreateExam(env.admin.ID, ExamInput{
		Title:         "e",
		PassThreshold: 0.5,
		Questions:     []QuestionInput{{Text: "q", Options: []string{"a", "b"}, Correct: 2}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuestion)
}

func TestCatalogScopeForHRBP(t *testing.T) {
	env := newTestEnv(t)

	otherDivision := env.seedDivision(t, "Finance")

	_, err := env.catalog.CreateTask(env.hrbp.ID, ItemInput{Title: "scoped", DivisionID: &env.division.ID})
	require.NoError(t, err)

	_, err = env.catalog.CreateTask(env.hrbp.ID, ItemInput{Title: "global"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = env.catalog.CreateTask(env.hrbp.ID, ItemInput{Title: "foreign", DivisionID: &otherDivision.ID})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDeleteExamBlockedOnceUsed(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 1, 0.5)
	other := env.seedExam(t, 1, 0.5)

	env.assign(t, AssignTemplateInput{Exams: entries(exam.ID)})

	err := env.catalog.DeleteExam(env.admin.ID, exam.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyUsed)

	// Флаг использования не снимается даже после замены шаблона
	env.assign(t, AssignTemplateInput{Exams: entries(other.ID)})
	err = env.catalog.DeleteExam(env.admin.ID, exam.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyUsed)

	fresh := env.seedExam(t, 1, 0.5)
	require.NoError(t, env.catalog.DeleteExam(env.admin.ID, fresh.ID))
	_, err = env.catalog.GetExam(fresh.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoSuchExam)
}

func TestDeleteTaskAndCourseBlockedOnceUsed(t *testing.T) {
	env := newTestEnv(t)

	task := env.seedTask(t)
	course := env.seedCourse(t, "intro")
	env.assign(t, AssignTemplateInput{
		Tasks:   entries(task.ID),
		Courses: entries(course.ID),
	})

	assert.ErrorIs(t, env.catalog.DeleteTask(env.admin.ID, task.ID), apperrors.ErrAlreadyUsed)
	assert.ErrorIs(t, env.catalog.DeleteCourse(env.admin.ID, course.ID), apperrors.ErrAlreadyUsed)
}

func TestDeleteMissingCatalogItems(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.catalog.DeleteExam(env.admin.ID, uuid.New()), apperrors.ErrNoSuchExam)
	assert.ErrorIs(t, env.catalog.DeleteTask(env.admin.ID, uuid.New()), apperrors.ErrNoSuchTask)
	assert.ErrorIs(t, env.catalog.DeleteCourse(env.admin.ID, uuid.New()), apperrors.ErrNoSuchCourse)
	assert.ErrorIs(t, env.catalog.DeleteSection(env.admin.ID, uuid.New()), apperrors.ErrNoSuchSection)
}

func TestUpdateExamKeepsQuestions(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 2, 0.5)

	updated, err := env.catalog.UpdateExam(env.admin.ID, exam.ID, ItemUpdate{
		Title: "renamed",
		Tags:  []string{"hr"},
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	got, err := env.catalog.GetExam(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Len(t, got.Questions, 2)
}

func TestAddSectionAppends(t *testing.T) {
	env := newTestEnv(t)

	course := env.seedCourse(t, "first", "second")
	section, err := env.catalog.AddSection(env.admin.ID, course.ID, "third")
	require.NoError(t, err)
	assert.Equal(t, 2, section.Position)

	got, err := env.catalog.GetCourse(course.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 3)
	assert.Equal(t, "third", got.Sections[2].Title)
}

func TestDeleteSectionCompactsPositions(t *testing.T) {
	env := newTestEnv(t)

	course := env.seedCourse(t, "first", "second", "third")
	got, err := env.catalog.GetCourse(course.ID)
	require.NoError(t, err)

	require.NoError(t, env.catalog.DeleteSection(env.admin.ID, got.Sections[1].ID))

	got, err = env.catalog.GetCourse(course.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "first", got.Sections[0].Title)
	assert.Equal(t, 0, got.Sections[0].Position)
	assert.Equal(t, "third", got.Sections[1].Title)
	assert.Equal(t, 1, got.Sections[1].Position)
}

func TestDeleteSectionWithProgressBlocked(t *testing.T) {
	env := newTestEnv(t)

	course := env.seedCourse(t, "first", "second")
	env.assign(t, AssignTemplateInput{Courses: entries(course.ID)})

	got, err := env.catalog.GetCourse(course.ID)
	require.NoError(t, err)
	require.NoError(t, env.exams.FinishSection(env.newbie.ID, env.newbie.ID, course.ID, got.Sections[0].ID))

	err = env.catalog.DeleteSection(env.admin.ID, got.Sections[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyUsed)

	// Раздел без прогресса удалить можно
	require.NoError(t, env.catalog.DeleteSection(env.admin.ID, got.Sections[1].ID))
}
