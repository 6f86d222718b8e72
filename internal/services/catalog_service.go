package services

import (
	"encoding/json"
	"errors"

	"onboard/internal/apperrors"
	"onboard/internal/models"
	"onboard/internal/repository"
	"onboard/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionInput - вопрос создаваемого экзамена
type QuestionInput struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// ExamInput - параметры создания экзамена
type ExamInput struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Tags          []string        `json:"tags"`
	DivisionID    *uuid.UUID      `json:"division_id"`
	PassThreshold float64         `json:"pass_threshold"`
	Questions     []QuestionInput `json:"questions"`
}

// ItemInput - параметры создания задания или курса
type ItemInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	DivisionID  *uuid.UUID `json:"division_id"`
	Sections    []string   `json:"sections,omitempty"` // только для курсов
}

// ItemUpdate - изменяемые метаданные элемента каталога.
// Смена тегов и подразделения не трогает шаблоны и факты прохождения:
// пункты шаблона ссылаются по идентификатору.
type ItemUpdate struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	DivisionID  *uuid.UUID `json:"division_id"`
}

// CatalogService управляет каталогом экзаменов, заданий и курсов.
// Элемент, на который когда-либо ссылался шаблон, удалить нельзя.
type CatalogService interface {
	CreateExam(actorID uuid.UUID, input ExamInput) (*models.Exam, error)
	GetExam(id uuid.UUID) (*models.Exam, error)
	ListExams() ([]models.Exam, error)
	UpdateExam(actorID, id uuid.UUID, update ItemUpdate) (*models.Exam, error)
	DeleteExam(actorID, id uuid.UUID) error

	CreateTask(actorID uuid.UUID, input ItemInput) (*models.Task, error)
	GetTask(id uuid.UUID) (*models.Task, error)
	ListTasks() ([]models.Task, error)
	UpdateTask(actorID, id uuid.UUID, update ItemUpdate) (*models.Task, error)
	DeleteTask(actorID, id uuid.UUID) error

	CreateCourse(actorID uuid.UUID, input ItemInput) (*models.Course, error)
	GetCourse(id uuid.UUID) (*models.Course, error)
	ListCourses() ([]models.Course, error)
	UpdateCourse(actorID, id uuid.UUID, update ItemUpdate) (*models.Course, error)
	DeleteCourse(actorID, id uuid.UUID) error

	AddSection(actorID, courseID uuid.UUID, title string) (*models.Section, error)
	DeleteSection(actorID, sectionID uuid.UUID) error
}

type catalogService struct {
	db          *gorm.DB
	exams       repository.ExamRepository
	tasks       repository.TaskRepository
	courses     repository.CourseRepository
	completions repository.CompletionRepository
	perms       PermissionService
}

// NewCatalogService создает новый сервис каталога
func NewCatalogService(
	db *gorm.DB,
	exams repository.ExamRepository,
	tasks repository.TaskRepository,
	courses repository.CourseRepository,
	completions repository.CompletionRepository,
	perms PermissionService,
) CatalogService {
	return &catalogService{
		db:          db,
		exams:       exams,
		tasks:       tasks,
		courses:     courses,
		completions: completions,
		perms:       perms,
	}
}

// CreateExam создает экзамен с вопросами и ключом ответов
func (s *catalogService) CreateExam(actorID uuid.UUID, input ExamInput) (*models.Exam, error) {
	if err := s.perms.AuthorizeCatalog(actorID, input.DivisionID); err != nil {
		return nil, err
	}
	if input.PassThreshold < 0 || input.PassThreshold > 1 {
		return nil, apperrors.ErrInvalidThreshold
	}
	exam := &models.Exam{
		ID:            uuid.New(),
		Title:         input.Title,
		Description:   input.Description,
		Tags:          marshalTags(input.Tags),
		DivisionID:    input.DivisionID,
		PassThreshold: input.PassThreshold,
	}
	for _, q := range input.Questions {
		if len(q.Options) < 2 || q.Correct < 0 || q.Correct >= len(q.Options) {
			return nil, apperrors.ErrInvalidQuestion
		}
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return nil, err
		}
		exam.Questions = append(exam.Questions, models.Question{
			Text:    q.Text,
			Options: string(opts),
			Correct: q.Correct,
		})
	}
	if err := s.exams.Create(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// GetExam получает экзамен по ID
func (s *catalogService) GetExam(id uuid.UUID) (*models.Exam, error) {
	exam, err := s.exams.GetByID(id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoSuchExam)
	}
	return exam, nil
}

// ListExams получает все экзамены каталога
func (s *catalogService) ListExams() ([]models.Exam, error) {
	return s.exams.List()
}

// UpdateExam обновляет метаданные экзамена
func (s *catalogService) UpdateExam(actorID, id uuid.UUID, update ItemUpdate) (*models.Exam, error) {
	exam, err := s.exams.GetByID(id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoSuchExam)
	}
	if err := s.perms.AuthorizeCatalog(actorID, exam.DivisionID); err != nil {
		return nil, err
	}
	exam.Title = update.Title
	exam.Description = update.Description
	exam.Tags = marshalTags(update.Tags)
	exam.DivisionID = update.DivisionID
	if err := s.exams.Update(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// DeleteExam удаляет экзамен; когда-либо использованный экзамен не удаляется
func (s *catalogService) DeleteExam(actorID, id uuid.UUID) error {
	return database.WithRetry(s.db, func(tx *gorm.DB) error {
		exams := s.exams.WithTx(tx)
		exam, err := exams.GetByID(id)
		if err != nil {
			return notFound(err, apperrors.ErrNoSuchExam)
		}
		if err := s.perms.AuthorizeCatalog(actorID, exam.DivisionID); err != nil {
			return err
		}
		if exam.Used {
			return apperrors.ErrAlreadyUsed
		}
		return exams.Delete(id)
	})
}

// CreateTask создает задание
func (s *catalogService) CreateTask(actorID uuid.UUID, input ItemInput) (*models.Task, error) {
	if err := s.perms.AuthorizeCatalog(actorID, input.DivisionID); err != nil {
		return nil, err
	}
	task := &models.Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Tags:        marshalTags(input.Tags),
		DivisionID:  input.DivisionID,
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask получает задание по ID
func (s *catalogService) GetTask(id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoSuchTask)
	}
	return task, nil
}

// ListTasks получает все задания каталога
func (s *catalogService) ListTasks() ([]models.Task, error) {
	return s.tasks.List()
}

// UpdateTask обновляет метаданные задания
func (s *catalogService) UpdateTask(actorID, id uuid.UUID, update ItemUpdate) (*models.Task, error) {
	task, err := s.tasks.GetByID(id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoSuchTask)
	}
	if err := s.perms.AuthorizeCatalog(actorID, task.DivisionID); err != nil {
		return nil, err
	}
	task.Title = update.Title
	task.Description = update.Description
	task.Tags = marshalTags(update.Tags)
	task.DivisionID = update.DivisionID
	if err := s.tasks.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask удаляет задание; когда-либо использованное задание не удаляется
func (s *catalogService) DeleteTask(actorID, id uuid.UUID) error {
	return database.WithRetry(s.db, func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)
		task, err := tasks.GetByID(id)
		if err != nil {
			return notFound(err, apperrors.ErrNoSuchTask)
		}
		if err := s.perms.AuthorizeCatalog(actorID, task.DivisionID); err != nil {
			return err
		}
		if task.Used {
			return apperrors.ErrAlreadyUsed
		}
		return tasks.Delete(id)
	})
}

// CreateCourse создает курс с разделами
func (s *catalogService) CreateCourse(actorID uuid.UUID, input ItemInput) (*models.Course, error) {
	if err := s.perms.AuthorizeCatalog(actorID, input.DivisionID); err != nil {
		return nil, err
	}
	course := &models.Course{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Tags:        marshalTags(input.Tags),
		DivisionID:  input.DivisionID,
	}
	for _, title := range input.Sections {
		course.Sections = append(course.Sections, models.Section{Title: title})
	}
	if err := s.courses.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

// GetCourse получает курс по ID
func (s *catalogService) GetCourse(id uuid.UUID) (*models.Course, error) {
	course, err := s.courses.GetByID(id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoSuchCourse)
	}
	return course, nil
}

// ListCourses получает все курсы каталога
func (s *catalogService) ListCourses() ([]models.Course, error) {
	return s.courses.List()
}

// UpdateCourse обновляет метаданные курса
func (s *catalogService) UpdateCourse(actorID, id uuid.UUID, update ItemUpdate) (*models.Course, error) {
	course, err := s.courses.GetByID(id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoSuchCourse)
	}
	if err := s.perms.AuthorizeCatalog(actorID, course.DivisionID); err != nil {
		return nil, err
	}
	course.Title = update.Title
	course.Description = update.Description
	course.Tags = marshalTags(update.Tags)
	course.DivisionID = update.DivisionID
	if err := s.courses.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse удаляет курс; когда-либо использованный курс не удаляется
func (s *catalogService) DeleteCourse(actorID, id uuid.UUID) error {
	return database.WithRetry(s.db, func(tx *gorm.DB) error {
		courses := s.courses.WithTx(tx)
		course, err := courses.GetByID(id)
		if err != nil {
			return notFound(err, apperrors.ErrNoSuchCourse)
		}
		if err := s.perms.AuthorizeCatalog(actorID, course.DivisionID); err != nil {
			return err
		}
		if course.Used {
			return apperrors.ErrAlreadyUsed
		}
		return courses.Delete(id)
	})
}

// AddSection добавляет раздел в конец курса
func (s *catalogService) AddSection(actorID, courseID uuid.UUID, title string) (*models.Section, error) {
	course, err := s.courses.GetByID(courseID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoSuchCourse)
	}
	if err := s.perms.AuthorizeCatalog(actorID, course.DivisionID); err != nil {
		return nil, err
	}
	return s.courses.AddSection(courseID, title)
}

// DeleteSection удаляет раздел курса и уплотняет нумерацию оставшихся.
// Раздел, по которому уже есть прогресс хотя бы одного новичка, не удаляется.
func (s *catalogService) DeleteSection(actorID, sectionID uuid.UUID) error {
	return database.WithRetry(s.db, func(tx *gorm.DB) error {
		courses := s.courses.WithTx(tx)
		section, err := courses.GetSection(sectionID)
		if err != nil {
			return notFound(err, apperrors.ErrNoSuchSection)
		}
		course, err := courses.GetByID(section.CourseID)
		if err != nil {
			return notFound(err, apperrors.ErrNoSuchCourse)
		}
		if err := s.perms.AuthorizeCatalog(actorID, course.DivisionID); err != nil {
			return err
		}
		referenced, err := s.completions.WithTx(tx).SectionReferenced(sectionID)
		if err != nil {
			return err
		}
		if referenced {
			return apperrors.ErrAlreadyUsed
		}
		if err := courses.DeleteSection(sectionID); err != nil {
			return err
		}
		return courses.Renumber(section.CourseID)
	})
}

// marshalTags сериализует список тегов в JSON
func marshalTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// notFound заменяет gorm.ErrRecordNotFound на категориальную ошибку вида
func notFound(err error, categorical error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return categorical
	}
	return err
}
