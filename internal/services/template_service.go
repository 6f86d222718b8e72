package services

import (
	"errors"

	"onboard/internal/apperrors"
	"onboard/internal/models"
	"onboard/internal/repository"
	"onboard/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateEntryInput - ссылка на элемент каталога с рекомендуемым днем
type TemplateEntryInput struct {
	ID  uuid.UUID `json:"id"`
	Day int       `json:"day"`
}

// AssignTemplateInput - полный состав шаблона обучения
type AssignTemplateInput struct {
	Exams   []TemplateEntryInput `json:"exams"`
	Tasks   []TemplateEntryInput `json:"tasks"`
	Courses []TemplateEntryInput `json:"courses"`

	// Публиковать ли шаблон новичку; иначе он остается черновиком наставника
	AssignToNewbie bool `json:"assign_to_newbie"`
}

// TemplateService собирает и заменяет шаблон обучения новичка.
// Начатое обучение защищено от замены целиком: после первого события
// прохождения любое полное обновление отклоняется.
type TemplateService interface {
	AssignOrUpdate(actorID, newbieID uuid.UUID, input AssignTemplateInput) (*models.Template, error)
	GetByNewbie(actorID, newbieID uuid.UUID) (*models.Template, error)
}

type templateService struct {
	db        *gorm.DB
	users     repository.UserRepository
	scopes    repository.ScopeRepository
	templates repository.TemplateRepository
	exams     repository.ExamRepository
	tasks     repository.TaskRepository
	courses   repository.CourseRepository
}

// NewTemplateService создает новый сервис шаблонов обучения
func NewTemplateService(
	db *gorm.DB,
	users repository.UserRepository,
	scopes repository.ScopeRepository,
	templates repository.TemplateRepository,
	exams repository.ExamRepository,
	tasks repository.TaskRepository,
	courses repository.CourseRepository,
) TemplateService {
	return &templateService{
		db:        db,
		users:     users,
		scopes:    scopes,
		templates: templates,
		exams:     exams,
		tasks:     tasks,
		courses:   courses,
	}
}

// AssignOrUpdate целиком заменяет шаблон новичка. Предусловия проверяются
// в фиксированном порядке: существование новичка, права вызывающего,
// наличие наставника, валидность ссылок по видам, состояние шаблона.
// Вся проверка и запись выполняются одной транзакцией.
func (s *templateService) AssignOrUpdate(actorID, newbieID uuid.UUID, input AssignTemplateInput) (*models.Template, error) {
	var result *models.Template

	err := database.WithRetry(s.db, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		scopes := s.scopes.WithTx(tx)
		templates := s.templates.WithTx(tx)
		exams := s.exams.WithTx(tx)
		tasks := s.tasks.WithTx(tx)
		courses := s.courses.WithTx(tx)

		// Существование цели проверяется до прав вызывающего
		newbie, err := users.GetByID(newbieID)
		if err != nil {
			return notFound(err, apperrors.ErrNoSuchNewbie)
		}
		if newbie.Role != models.RoleNewbie {
			return apperrors.ErrNoSuchNewbie
		}

		actor, err := users.GetByID(actorID)
		if err != nil {
			return notFound(err, apperrors.ErrPermissionDenied)
		}
		if _, err := authorizeOverNewbie(users, scopes, actor, newbieID); err != nil {
			return err
		}

		if newbie.TutorID == nil {
			return apperrors.ErrNoTutorAssigned
		}
		if _, err := users.GetByID(*newbie.TutorID); err != nil {
			return notFound(err, apperrors.ErrNoSuchTutor)
		}

		examIDs := entryIDs(input.Exams)
		taskIDs := entryIDs(input.Tasks)
		courseIDs := entryIDs(input.Courses)

		if err := checkRefs(exams.MissingIDs, examIDs, apperrors.ErrInvalidExam); err != nil {
			return err
		}
		if err := checkRefs(tasks.MissingIDs, taskIDs, apperrors.ErrInvalidTask); err != nil {
			return err
		}
		if err := checkRefs(courses.MissingIDs, courseIDs, apperrors.ErrInvalidCourse); err != nil {
			return err
		}

		template, err := templates.GetByNewbie(newbieID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			template = &models.Template{ID: uuid.New(), NewbieID: newbieID}
		} else if !template.State.CanReassign() {
			return apperrors.ErrTrainingAssigned
		}

		template.State = models.TemplateStaged
		if input.AssignToNewbie {
			template.State = models.TemplatePublished
		}
		template.Exams = nil
		template.Tasks = nil
		template.Courses = nil
		for _, e := range input.Exams {
			template.Exams = append(template.Exams, models.TemplateExam{ExamID: e.ID, Day: e.Day})
		}
		for _, e := range input.Tasks {
			template.Tasks = append(template.Tasks, models.TemplateTask{TaskID: e.ID, Day: e.Day})
		}
		for _, e := range input.Courses {
			template.Courses = append(template.Courses, models.TemplateCourse{CourseID: e.ID, Day: e.Day})
		}

		created := template.CreatedAt.IsZero()
		if created {
			if err := templates.Create(template); err != nil {
				return err
			}
		} else {
			if err := templates.ReplaceEntries(template); err != nil {
				return err
			}
		}

		// Использование монотонно: однажды попавший в шаблон элемент
		// навсегда остается помеченным
		if err := exams.MarkUsed(examIDs); err != nil {
			return err
		}
		if err := tasks.MarkUsed(taskIDs); err != nil {
			return err
		}
		if err := courses.MarkUsed(courseIDs); err != nil {
			return err
		}

		result, err = templates.GetByNewbie(newbieID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByNewbie получает шаблон новичка с проверкой прав
func (s *templateService) GetByNewbie(actorID, newbieID uuid.UUID) (*models.Template, error) {
	newbie, err := s.users.GetByID(newbieID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoSuchNewbie)
	}
	if newbie.Role != models.RoleNewbie {
		return nil, apperrors.ErrNoSuchNewbie
	}
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPermissionDenied)
	}
	if _, err := authorizeOverNewbie(s.users, s.scopes, actor, newbieID); err != nil {
		return nil, err
	}
	template, err := s.templates.GetByNewbie(newbieID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoTutorAssigned)
	}
	return template, nil
}

// entryIDs собирает идентификаторы из пунктов шаблона
func entryIDs(entries []TemplateEntryInput) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// checkRefs проверяет, что все ссылки разрешаются в каталоге
func checkRefs(missing func([]uuid.UUID) ([]uuid.UUID, error), ids []uuid.UUID, categorical error) error {
	gone, err := missing(ids)
	if err != nil {
		return err
	}
	if len(gone) > 0 {
		return categorical
	}
	return nil
}
