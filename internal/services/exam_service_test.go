package services

import (
	"testing"

	"onboard/internal/apperrors"
	"onboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitScoresAnswers(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 4, 0.6)
	env.assign(t, AssignTemplateInput{Exams: entries(exam.ID)})

	got, err := env.catalog.GetExam(exam.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 4)

	// Три правильных ответа из четырех, порядок отправки обратный
	answers := []Answer{
		{QuestionID: got.Questions[3].ID, Option: 1},
		{QuestionID: got.Questions[2].ID, Option: 0},
		{QuestionID: got.Questions[1].ID, Option: 0},
		{QuestionID: got.Questions[0].ID, Option: 0},
	}
	result, err := env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, answers)
	require.NoError(t, err)

	assert.InDelta(t, 0.75, result.Score, 1e-9)
	assert.True(t, result.Passed)

	// Результаты идут в порядке отправки, не в порядке вопросов экзамена
	require.Len(t, result.Results, 4)
	assert.Equal(t, got.Questions[3].ID, result.Results[0].QuestionID)
	assert.False(t, result.Results[0].Correct)
	assert.Equal(t, got.Questions[0].ID, result.Results[3].QuestionID)
	assert.True(t, result.Results[3].Correct)
}

func TestSubmitAnswerCountMismatch(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 3, 0.5)
	env.assign(t, AssignTemplateInput{Exams: entries(exam.ID)})

	got, err := env.catalog.GetExam(exam.ID)
	require.NoError(t, err)

	short := []Answer{
		{QuestionID: got.Questions[0].ID, Option: 0},
		{QuestionID: got.Questions[1].ID, Option: 0},
	}
	_, err = env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, short)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswerCount)

	_, err = env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswerCount)
}

func TestSubmitInvalidAnswers(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 2, 0.5)
	env.assign(t, AssignTemplateInput{Exams: entries(exam.ID)})

	got, err := env.catalog.GetExam(exam.ID)
	require.NoError(t, err)

	// Чужой вопрос
	_, err = env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, []Answer{
		{QuestionID: got.Questions[0].ID, Option: 0},
		{QuestionID: uuid.New(), Option: 0},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswer)

	// Дубль вопроса
	_, err = env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, []Answer{
		{QuestionID: got.Questions[0].ID, Option: 0},
		{QuestionID: got.Questions[0].ID, Option: 1},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswer)

	// Вариант вне диапазона
	_, err = env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, []Answer{
		{QuestionID: got.Questions[0].ID, Option: 3},
		{QuestionID: got.Questions[1].ID, Option: 0},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswer)

	// Отклоненная отправка не оставляет факта прохождения
	view, err := env.progress.View(env.newbie.ID, env.newbie.ID)
	require.NoError(t, err)
	require.Len(t, view.Exams, 1)
	assert.False(t, view.Exams[0].Finished)
}

func TestSubmitOverwritesPreviousResult(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 2, 0.6)
	env.assign(t, AssignTemplateInput{Exams: entries(exam.ID)})

	got, err := env.catalog.GetExam(exam.ID)
	require.NoError(t, err)

	result, err := env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, []Answer{
		{QuestionID: got.Questions[0].ID, Option: 1},
		{QuestionID: got.Questions[1].ID, Option: 1},
	})
	require.NoError(t, err)
	assert.Zero(t, result.Score)
	assert.False(t, result.Passed)

	result, err = env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, []Answer{
		{QuestionID: got.Questions[0].ID, Option: 0},
		{QuestionID: got.Questions[1].ID, Option: 0},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
	assert.True(t, result.Passed)

	// Хранится только последний результат
	view, err := env.progress.View(env.newbie.ID, env.newbie.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Exams[0].Score)
	assert.InDelta(t, 1.0, *view.Exams[0].Score, 1e-9)
}

func TestSubmitExamOutsideTemplate(t *testing.T) {
	env := newTestEnv(t)

	inTemplate := env.seedExam(t, 1, 0.5)
	outside := env.seedExam(t, 1, 0.5)
	env.assign(t, AssignTemplateInput{Exams: entries(inTemplate.ID)})

	_, err := env.exams.Submit(env.newbie.ID, env.newbie.ID, outside.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoSuchExam)
}

func TestFirstEventStartsTraining(t *testing.T) {
	env := newTestEnv(t)

	task := env.seedTask(t)
	exam := env.seedExam(t, 1, 0.5)
	env.assign(t, AssignTemplateInput{Tasks: entries(task.ID), Exams: entries(exam.ID)})

	require.NoError(t, env.exams.FinishTask(env.newbie.ID, env.newbie.ID, task.ID))

	template, err := env.templates.GetByNewbie(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TemplateStarted, template.State)
}

func TestAllItemsFinishedCompletesTraining(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 1, 0.5)
	task := env.seedTask(t)
	course := env.seedCourse(t, "first", "second")
	env.assign(t, AssignTemplateInput{
		Exams:   entries(exam.ID),
		Tasks:   entries(task.ID),
		Courses: entries(course.ID),
	})

	gotExam, err := env.catalog.GetExam(exam.ID)
	require.NoError(t, err)
	gotCourse, err := env.catalog.GetCourse(course.ID)
	require.NoError(t, err)

	_, err = env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, []Answer{
		{QuestionID: gotExam.Questions[0].ID, Option: 0},
	})
	require.NoError(t, err)
	require.NoError(t, env.exams.FinishTask(env.newbie.ID, env.newbie.ID, task.ID))
	require.NoError(t, env.exams.FinishSection(env.newbie.ID, env.newbie.ID, course.ID, gotCourse.Sections[0].ID))

	// Один раздел курса еще не пройден
	template, err := env.templates.GetByNewbie(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TemplateStarted, template.State)

	require.NoError(t, env.exams.FinishSection(env.newbie.ID, env.newbie.ID, course.ID, gotCourse.Sections[1].ID))

	template, err = env.templates.GetByNewbie(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TemplateComplete, template.State)
}

func TestFailedExamStillFinishesItem(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 1, 0.9)
	env.assign(t, AssignTemplateInput{Exams: entries(exam.ID)})

	got, err := env.catalog.GetExam(exam.ID)
	require.NoError(t, err)

	// Несданный экзамен все равно считается пройденным пунктом шаблона
	result, err := env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, []Answer{
		{QuestionID: got.Questions[0].ID, Option: 1},
	})
	require.NoError(t, err)
	assert.False(t, result.Passed)

	template, err := env.templates.GetByNewbie(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TemplateComplete, template.State)
}

func TestFinishTaskOutsideTemplate(t *testing.T) {
	env := newTestEnv(t)

	task := env.seedTask(t)
	env.assign(t, AssignTemplateInput{Tasks: entries(task.ID)})

	err := env.exams.FinishTask(env.newbie.ID, env.newbie.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNoSuchTask)
}

func TestFinishSectionValidation(t *testing.T) {
	env := newTestEnv(t)

	course := env.seedCourse(t, "first")
	foreign := env.seedCourse(t, "other")
	env.assign(t, AssignTemplateInput{Courses: entries(course.ID)})

	gotForeign, err := env.catalog.GetCourse(foreign.ID)
	require.NoError(t, err)

	// Курс не из шаблона
	err = env.exams.FinishSection(env.newbie.ID, env.newbie.ID, foreign.ID, gotForeign.Sections[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNoSuchCourse)

	// Раздел другого курса
	err = env.exams.FinishSection(env.newbie.ID, env.newbie.ID, course.ID, gotForeign.Sections[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrNoSuchSection)
}

func TestFinishSectionIdempotent(t *testing.T) {
	env := newTestEnv(t)

	course := env.seedCourse(t, "first", "second")
	env.assign(t, AssignTemplateInput{Courses: entries(course.ID)})

	got, err := env.catalog.GetCourse(course.ID)
	require.NoError(t, err)

	require.NoError(t, env.exams.FinishSection(env.newbie.ID, env.newbie.ID, course.ID, got.Sections[0].ID))
	require.NoError(t, env.exams.FinishSection(env.newbie.ID, env.newbie.ID, course.ID, got.Sections[0].ID))

	view, err := env.progress.View(env.newbie.ID, env.newbie.ID)
	require.NoError(t, err)
	require.Len(t, view.Courses, 1)
	assert.False(t, view.Courses[0].Finished)
	assert.True(t, view.Courses[0].Sections[0].Finished)
	assert.False(t, view.Courses[0].Sections[1].Finished)
}

func TestSubmitWithoutTemplate(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 1, 0.5)
	_, err := env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrNoTutorAssigned)
}
