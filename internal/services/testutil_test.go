package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"onboard/internal/models"
	"onboard/internal/repository"
	"onboard/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

// testEnv поднимает все сервисы над свежей базой в памяти
type testEnv struct {
	db *gorm.DB

	users       repository.UserRepository
	scopes      repository.ScopeRepository
	templateRep repository.TemplateRepository
	completions repository.CompletionRepository

	perms     PermissionService
	tags      TagService
	userSvc   UserService
	catalog   CatalogService
	templates TemplateService
	progress  ProgressService
	exams     ExamService

	admin    *models.User
	hrbp     *models.User
	tutor    *models.User
	newbie   *models.User
	division *models.Division
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// База живет в памяти: единственное соединение держит ее открытой
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	scopeRepo := repository.NewScopeRepository(db)
	examRepo := repository.NewExamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	completionRepo := repository.NewCompletionRepository(db)

	env := &testEnv{
		db:          db,
		users:       userRepo,
		scopes:      scopeRepo,
		templateRep: templateRepo,
		completions: completionRepo,
	}
	env.perms = NewPermissionService(db, userRepo, scopeRepo, tagRepo)
	env.tags = NewTagService(tagRepo, userRepo, scopeRepo, examRepo, taskRepo, courseRepo)
	env.userSvc = NewUserService(userRepo, tagRepo, scopeRepo)
	env.catalog = NewCatalogService(db, examRepo, taskRepo, courseRepo, completionRepo, env.perms)
	env.templates = NewTemplateService(db, userRepo, scopeRepo, templateRepo, examRepo, taskRepo, courseRepo)
	env.progress = NewProgressService(userRepo, scopeRepo, templateRepo, examRepo, taskRepo, courseRepo, completionRepo)
	env.exams = NewExamService(db, userRepo, scopeRepo, templateRepo, examRepo, courseRepo, completionRepo)

	env.division = &models.Division{ID: uuid.New(), Name: "Engineering"}
	require.NoError(t, tagRepo.CreateDivision(env.division))

	env.admin = env.seedUser(t, models.RoleRootAdmin, nil, nil)
	env.hrbp = env.seedUser(t, models.RoleHRBP, nil, nil)
	env.tutor = env.seedUser(t, models.RoleTutor, &env.division.ID, nil)
	env.newbie = env.seedUser(t, models.RoleNewbie, &env.division.ID, &env.tutor.ID)

	require.NoError(t, env.perms.SetScope(env.admin.ID, env.hrbp.ID, []uuid.UUID{env.division.ID}))

	return env
}

// seedUser создает пользователя напрямую, минуя проверку прав
func (e *testEnv) seedUser(t *testing.T, role models.UserRole, divisionID, tutorID *uuid.UUID) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     fmt.Sprintf("%s_%s", role, uuid.New().String()[:8]),
		PasswordHash: "x",
		Role:         role,
		DivisionID:   divisionID,
		TutorID:      tutorID,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) seedDivision(t *testing.T, name string) *models.Division {
	t.Helper()
	division, err := e.tags.CreateDivision(e.admin.ID, name)
	require.NoError(t, err)
	return division
}

// seedExam создает экзамен с n вопросами, правильный вариант всегда 0
func (e *testEnv) seedExam(t *testing.T, n int, threshold float64) *models.Exam {
	t.Helper()
	input := ExamInput{
		Title:         "exam",
		PassThreshold: threshold,
	}
	for i := 0; i < n; i++ {
		input.Questions = append(input.Questions, QuestionInput{
			Text:    fmt.Sprintf("q%d", i),
			Options: []string{"right", "wrong", "also wrong"},
			Correct: 0,
		})
	}
	exam, err := e.catalog.CreateExam(e.admin.ID, input)
	require.NoError(t, err)
	return exam
}

func (e *testEnv) seedTask(t *testing.T) *models.Task {
	t.Helper()
	task, err := e.catalog.CreateTask(e.admin.ID, ItemInput{Title: "task"})
	require.NoError(t, err)
	return task
}

func (e *testEnv) seedCourse(t *testing.T, sections ...string) *models.Course {
	t.Helper()
	course, err := e.catalog.CreateCourse(e.admin.ID, ItemInput{Title: "course", Sections: sections})
	require.NoError(t, err)
	return course
}

// assign собирает шаблон для стандартного новичка и публикует его
func (e *testEnv) assign(t *testing.T, input AssignTemplateInput) *models.Template {
	t.Helper()
	input.AssignToNewbie = true
	template, err := e.templates.AssignOrUpdate(e.tutor.ID, e.newbie.ID, input)
	require.NoError(t, err)
	return template
}

func entries(ids ...uuid.UUID) []TemplateEntryInput {
	list := make([]TemplateEntryInput, 0, len(ids))
	for i, id := range ids {
		list = append(list, TemplateEntryInput{ID: id, Day: i + 1})
	}
	return list
}
