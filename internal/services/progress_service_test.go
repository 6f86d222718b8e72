package services

import (
	"testing"

	"onboard/internal/apperrors"
	"onboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewWithoutTemplate(t *testing.T) {
	env := newTestEnv(t)

	view, err := env.progress.View(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TemplateUnassigned, view.State)
	assert.Empty(t, view.Exams)
	assert.Empty(t, view.Tasks)
	assert.Empty(t, view.Courses)
}

func TestViewRequiresTutor(t *testing.T) {
	env := newTestEnv(t)

	orphan := env.seedUser(t, models.RoleNewbie, &env.division.ID, nil)
	_, err := env.progress.View(env.admin.ID, orphan.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoTutorAssigned)
}

func TestViewFollowsTemplateOrder(t *testing.T) {
	env := newTestEnv(t)

	first := env.seedExam(t, 1, 0.5)
	second := env.seedExam(t, 1, 0.5)
	third := env.seedExam(t, 1, 0.5)
	env.assign(t, AssignTemplateInput{Exams: entries(second.ID, third.ID, first.ID)})

	view, err := env.progress.View(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	require.Len(t, view.Exams, 3)
	assert.Equal(t, second.ID, view.Exams[0].ExamID)
	assert.Equal(t, third.ID, view.Exams[1].ExamID)
	assert.Equal(t, first.ID, view.Exams[2].ExamID)
	assert.Equal(t, 1, view.Exams[0].Day)
	assert.Equal(t, 3, view.Exams[2].Day)
}

func TestViewReflectsLiveCatalog(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 1, 0.5)
	env.assign(t, AssignTemplateInput{Exams: entries(exam.ID)})

	_, err := env.catalog.UpdateExam(env.admin.ID, exam.ID, ItemUpdate{
		Title: "renamed",
		Tags:  []string{"hr", "day-one"},
	})
	require.NoError(t, err)

	view, err := env.progress.View(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	require.Len(t, view.Exams, 1)
	assert.Equal(t, "renamed", view.Exams[0].Title)
	assert.Equal(t, []string{"hr", "day-one"}, view.Exams[0].Tags)
}

func TestViewExamScoreAgainstCurrentThreshold(t *testing.T) {
	env := newTestEnv(t)

	exam := env.seedExam(t, 2, 0.6)
	env.assign(t, AssignTemplateInput{Exams: entries(exam.ID)})

	got, err := env.catalog.GetExam(exam.ID)
	require.NoError(t, err)

	_, err = env.exams.Submit(env.newbie.ID, env.newbie.ID, exam.ID, []Answer{
		{QuestionID: got.Questions[0].ID, Option: 0},
		{QuestionID: got.Questions[1].ID, Option: 1},
	})
	require.NoError(t, err)

	view, err := env.progress.View(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	require.Len(t, view.Exams, 1)
	assert.True(t, view.Exams[0].Finished)
	require.NotNil(t, view.Exams[0].Score)
	assert.InDelta(t, 0.5, *view.Exams[0].Score, 1e-9)
	require.NotNil(t, view.Exams[0].Passed)
	assert.False(t, *view.Exams[0].Passed)
}

func TestCourseCompletionPartial(t *testing.T) {
	env := newTestEnv(t)

	course := env.seedCourse(t, "a", "b")
	env.assign(t, AssignTemplateInput{Courses: entries(course.ID)})

	got, err := env.catalog.GetCourse(course.ID)
	require.NoError(t, err)
	require.NoError(t, env.exams.FinishSection(env.newbie.ID, env.newbie.ID, course.ID, got.Sections[0].ID))

	view, err := env.progress.View(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	require.Len(t, view.Courses, 1)
	assert.False(t, view.Courses[0].Finished)
}

func TestCourseCompletionRegressesOnNewSection(t *testing.T) {
	env := newTestEnv(t)

	course := env.seedCourse(t, "a", "b")
	env.assign(t, AssignTemplateInput{Courses: entries(course.ID)})

	got, err := env.catalog.GetCourse(course.ID)
	require.NoError(t, err)
	for _, section := range got.Sections {
		require.NoError(t, env.exams.FinishSection(env.newbie.ID, env.newbie.ID, course.ID, section.ID))
	}

	view, err := env.progress.View(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	require.True(t, view.Courses[0].Finished)

	// Завершенность считается по живому списку разделов:
	// новый раздел возвращает курс в работу
	_, err = env.catalog.AddSection(env.admin.ID, course.ID, "c")
	require.NoError(t, err)

	view, err = env.progress.View(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	assert.False(t, view.Courses[0].Finished)
	require.Len(t, view.Courses[0].Sections, 3)
	assert.False(t, view.Courses[0].Sections[2].Finished)
}

func TestCourseWithoutSectionsNeverFinished(t *testing.T) {
	env := newTestEnv(t)

	course := env.seedCourse(t)
	env.assign(t, AssignTemplateInput{Courses: entries(course.ID)})

	view, err := env.progress.View(env.tutor.ID, env.newbie.ID)
	require.NoError(t, err)
	require.Len(t, view.Courses, 1)
	assert.False(t, view.Courses[0].Finished)
	assert.Empty(t, view.Courses[0].Sections)
}

func TestViewAll(t *testing.T) {
	env := newTestEnv(t)

	second := env.seedUser(t, models.RoleNewbie, &env.division.ID, &env.tutor.ID)
	task := env.seedTask(t)
	env.assign(t, AssignTemplateInput{Tasks: entries(task.ID)})

	views, err := env.progress.ViewAll(env.tutor.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byNewbie := map[string]models.TrainingView{}
	for _, view := range views {
		byNewbie[view.NewbieID.String()] = view
	}
	assert.Equal(t, models.TemplatePublished, byNewbie[env.newbie.ID.String()].State)
	assert.Equal(t, models.TemplateUnassigned, byNewbie[second.ID.String()].State)

	// Сводка по всем новичкам доступна только наставнику
	_, err = env.progress.ViewAll(env.admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	_, err = env.progress.ViewAll(env.newbie.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
