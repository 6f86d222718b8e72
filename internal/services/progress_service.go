package services

import (
	"errors"

	"onboard/internal/apperrors"
	"onboard/internal/models"
	"onboard/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressService собирает сводку обучения: пункты шаблона, живые
// метаданные каталога и факты прохождения. Сводка считается на каждый
// запрос; добавление раздела в курс снимает с него отметку завершенности.
type ProgressService interface {
	View(actorID, newbieID uuid.UUID) (*models.TrainingView, error)
	ViewAll(actorID uuid.UUID) ([]models.TrainingView, error)
}

type progressService struct {
	users       repository.UserRepository
	scopes      repository.ScopeRepository
	templates   repository.TemplateRepository
	exams       repository.ExamRepository
	tasks       repository.TaskRepository
	courses     repository.CourseRepository
	completions repository.CompletionRepository
}

// NewProgressService создает новый сервис прогресса
func NewProgressService(
	users repository.UserRepository,
	scopes repository.ScopeRepository,
	templates repository.TemplateRepository,
	exams repository.ExamRepository,
	tasks repository.TaskRepository,
	courses repository.CourseRepository,
	completions repository.CompletionRepository,
) ProgressService {
	return &progressService{
		users:       users,
		scopes:      scopes,
		templates:   templates,
		exams:       exams,
		tasks:       tasks,
		courses:     courses,
		completions: completions,
	}
}

// View строит сводку обучения одного новичка
func (s *progressService) View(actorID, newbieID uuid.UUID) (*models.TrainingView, error) {
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
	if newbie.TutorID == nil {
		return nil, apperrors.ErrNoTutorAssigned
	}
	return s.buildView(newbie)
}

// ViewAll строит сводки по всем новичкам наставника
func (s *progressService) ViewAll(actorID uuid.UUID) ([]models.TrainingView, error) {
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPermissionDenied)
	}
	if actor.Role != models.RoleTutor {
		return nil, apperrors.ErrPermissionDenied
	}
	newbies, err := s.users.ListNewbiesByTutor(actor.ID)
	if err != nil {
		return nil, err
	}
	views := make([]models.TrainingView, 0, len(newbies))
	for i := range newbies {
		view, err := s.buildView(&newbies[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// buildView объединяет шаблон, каталог и факты прохождения
func (s *progressService) buildView(newbie *models.User) (*models.TrainingView, error) {
	view := &models.TrainingView{
		NewbieID: newbie.ID,
		State:    models.TemplateUnassigned,
		Exams:    []models.ExamProgress{},
		Tasks:    []models.TaskProgress{},
		Courses:  []models.CourseProgress{},
	}

	template, err := s.templates.GetByNewbie(newbie.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return view, nil
		}
		return nil, err
	}
	view.State = template.State

	facts, err := s.completions.ListByNewbie(newbie.ID)
	if err != nil {
		return nil, err
	}
	byItem := make(map[uuid.UUID]*models.CompletionFact, len(facts))
	for i := range facts {
		byItem[facts[i].ItemID] = &facts[i]
	}

	// Порядок внутри каждого списка повторяет порядок пунктов шаблона
	for _, entry := range template.Exams {
		exam, err := s.exams.GetByID(entry.ExamID)
		if err != nil {
			return nil, notFound(err, apperrors.ErrNoSuchExam)
		}
		progress := models.ExamProgress{
			ExamID:      exam.ID,
			Title:       exam.Title,
			Description: exam.Description,
			Tags:        models.TagList(exam.Tags),
			Day:         entry.Day,
		}
		if fact, ok := byItem[entry.ExamID]; ok {
			progress.Finished = fact.Finished
			progress.Score = fact.Score
			if fact.Score != nil {
				passed := *fact.Score >= exam.PassThreshold
				progress.Passed = &passed
			}
		}
		view.Exams = append(view.Exams, progress)
	}

	for _, entry := range template.Tasks {
		task, err := s.tasks.GetByID(entry.TaskID)
		if err != nil {
			return nil, notFound(err, apperrors.ErrNoSuchTask)
		}
		progress := models.TaskProgress{
			TaskID:      task.ID,
			Title:       task.Title,
			Description: task.Description,
			Tags:        models.TagList(task.Tags),
			Day:         entry.Day,
		}
		if fact, ok := byItem[entry.TaskID]; ok {
			progress.Finished = fact.Finished
		}
		view.Tasks = append(view.Tasks, progress)
	}

	for _, entry := range template.Courses {
		course, err := s.courses.GetByID(entry.CourseID)
		if err != nil {
			return nil, notFound(err, apperrors.ErrNoSuchCourse)
		}
		progress := models.CourseProgress{
			CourseID:    course.ID,
			Title:       course.Title,
			Description: course.Description,
			Tags:        models.TagList(course.Tags),
			Day:         entry.Day,
			Sections:    []models.SectionProgress{},
		}
		finished := sectionSet(byItem[entry.CourseID])
		for _, section := range course.Sections {
			_, done := finished[section.ID]
			progress.Sections = append(progress.Sections, models.SectionProgress{
				SectionID: section.ID,
				Title:     section.Title,
				Position:  section.Position,
				Finished:  done,
			})
		}
		// Курс завершен, только если пройден каждый текущий раздел:
		// раздел, добавленный после прохождения, возвращает курс в работу
		progress.Finished = courseFinished(course, finished)
		view.Courses = append(view.Courses, progress)
	}

	return view, nil
}

// sectionSet собирает множество пройденных разделов из факта
func sectionSet(fact *models.CompletionFact) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{})
	if fact == nil {
		return set
	}
	for _, fs := range fact.FinishedSections {
		set[fs.SectionID] = struct{}{}
	}
	return set
}

// courseFinished проверяет завершенность курса по живому списку разделов
func courseFinished(course *models.Course, finished map[uuid.UUID]struct{}) bool {
	if len(course.Sections) == 0 {
		return false
	}
	for _, section := range course.Sections {
		if _, ok := finished[section.ID]; !ok {
			return false
		}
	}
	return true
}
