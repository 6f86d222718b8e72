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

// Answer - ответ новичка на один вопрос экзамена
type Answer struct {
	QuestionID uuid.UUID `json:"question_id"`
	Option     int       `json:"option"`
}

// AnswerResult - результат проверки одного ответа; порядок повторяет порядок отправки
type AnswerResult struct {
	QuestionID uuid.UUID `json:"question_id"`
	Correct    bool      `json:"correct"`
}

// SubmitResult - итог проверки экзамена
type SubmitResult struct {
	Score   float64        `json:"score"`
	Passed  bool           `json:"passed"`
	Results []AnswerResult `json:"results"`
}

// ExamService проверяет ответы на экзамены и фиксирует события прохождения:
// экзамены, задания и разделы курсов. Каждое событие пишет факт прохождения
// и двигает состояние шаблона вперед в той же транзакции.
type ExamService interface {
	Submit(actorID, newbieID, examID uuid.UUID, answers []Answer) (*SubmitResult, error)
	FinishTask(actorID, newbieID, taskID uuid.UUID) error
	FinishSection(actorID, newbieID, courseID, sectionID uuid.UUID) error
}

type examService struct {
	db          *gorm.DB
	users       repository.UserRepository
	scopes      repository.ScopeRepository
	templates   repository.TemplateRepository
	exams       repository.ExamRepository
	courses     repository.CourseRepository
	completions repository.CompletionRepository
}

// NewExamService создает новый сервис прохождения
func NewExamService(
	db *gorm.DB,
	users repository.UserRepository,
	scopes repository.ScopeRepository,
	templates repository.TemplateRepository,
	exams repository.ExamRepository,
	courses repository.CourseRepository,
	completions repository.CompletionRepository,
) ExamService {
	return &examService{
		db:          db,
		users:       users,
		scopes:      scopes,
		templates:   templates,
		exams:       exams,
		courses:     courses,
		completions: completions,
	}
}

// Submit проверяет ответы на экзамен из шаблона новичка.
// Повторная отправка перезаписывает прежний результат; история не хранится.
func (s *examService) Submit(actorID, newbieID, examID uuid.UUID, answers []Answer) (*SubmitResult, error) {
	var result *SubmitResult

	err := database.WithRetry(s.db, func(tx *gorm.DB) error {
		templates := s.templates.WithTx(tx)
		completions := s.completions.WithTx(tx)

		_, template, err := s.resolveNewbie(tx, actorID, newbieID)
		if err != nil {
			return err
		}

		found := false
		for _, entry := range template.Exams {
			if entry.ExamID == examID {
				found = true
				break
			}
		}
		if !found {
			return apperrors.ErrNoSuchExam
		}

		exam, err := s.exams.WithTx(tx).GetByID(examID)
		if err != nil {
			return notFound(err, apperrors.ErrNoSuchExam)
		}

		if len(answers) != len(exam.Questions) {
			return apperrors.ErrInvalidAnswerCount
		}

		questions := make(map[uuid.UUID]*models.Question, len(exam.Questions))
		for i := range exam.Questions {
			questions[exam.Questions[i].ID] = &exam.Questions[i]
		}

		// Результаты идут в порядке отправки ответов, не в каноническом
		// порядке вопросов экзамена
		answered := make(map[uuid.UUID]struct{}, len(answers))
		results := make([]AnswerResult, 0, len(answers))
		correct := 0
		for _, answer := range answers {
			question, ok := questions[answer.QuestionID]
			if !ok {
				return apperrors.ErrInvalidAnswer
			}
			if _, dup := answered[answer.QuestionID]; dup {
				return apperrors.ErrInvalidAnswer
			}
			answered[answer.QuestionID] = struct{}{}
			if answer.Option < 0 || answer.Option >= len(question.OptionList()) {
				return apperrors.ErrInvalidAnswer
			}
			ok = answer.Option == question.Correct
			if ok {
				correct++
			}
			results = append(results, AnswerResult{QuestionID: answer.QuestionID, Correct: ok})
		}

		score := float64(correct) / float64(len(exam.Questions))

		fact, err := completions.GetOrCreate(newbieID, examID)
		if err != nil {
			return err
		}
		fact.Finished = true
		fact.Score = &score
		if err := completions.Save(fact); err != nil {
			return err
		}

		if err := s.advance(tx, templates, completions, template); err != nil {
			return err
		}

		result = &SubmitResult{
			Score:   score,
			Passed:  score >= exam.PassThreshold,
			Results: results,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FinishTask отмечает задание из шаблона выполненным
func (s *examService) FinishTask(actorID, newbieID, taskID uuid.UUID) error {
	return database.WithRetry(s.db, func(tx *gorm.DB) error {
		templates := s.templates.WithTx(tx)
		completions := s.completions.WithTx(tx)

		_, template, err := s.resolveNewbie(tx, actorID, newbieID)
		if err != nil {
			return err
		}

		found := false
		for _, entry := range template.Tasks {
			if entry.TaskID == taskID {
				found = true
				break
			}
		}
		if !found {
			return apperrors.ErrNoSuchTask
		}

		fact, err := completions.GetOrCreate(newbieID, taskID)
		if err != nil {
			return err
		}
		fact.Finished = true
		if err := completions.Save(fact); err != nil {
			return err
		}

		return s.advance(tx, templates, completions, template)
	})
}

// FinishSection отмечает раздел курса из шаблона пройденным
func (s *examService) FinishSection(actorID, newbieID, courseID, sectionID uuid.UUID) error {
	return database.WithRetry(s.db, func(tx *gorm.DB) error {
		templates := s.templates.WithTx(tx)
		completions := s.completions.WithTx(tx)

		_, template, err := s.resolveNewbie(tx, actorID, newbieID)
		if err != nil {
			return err
		}

		found := false
		for _, entry := range template.Courses {
			if entry.CourseID == courseID {
				found = true
				break
			}
		}
		if !found {
			return apperrors.ErrNoSuchCourse
		}

		course, err := s.courses.WithTx(tx).GetByID(courseID)
		if err != nil {
			return notFound(err, apperrors.ErrNoSuchCourse)
		}
		owned := false
		for _, section := range course.Sections {
			if section.ID == sectionID {
				owned = true
				break
			}
		}
		if !owned {
			return apperrors.ErrNoSuchSection
		}

		fact, err := completions.GetOrCreate(newbieID, courseID)
		if err != nil {
			return err
		}
		if err := completions.AddFinishedSection(fact.ID, sectionID); err != nil {
			return err
		}

		// Флаг завершенности курса пересчитывается по живому списку разделов
		fact, err = completions.Get(newbieID, courseID)
		if err != nil {
			return err
		}
		fact.Finished = courseFinished(course, sectionSet(fact))
		if err := completions.Save(fact); err != nil {
			return err
		}

		return s.advance(tx, templates, completions, template)
	})
}

// resolveNewbie выполняет общие предусловия событий прохождения:
// существование новичка, права вызывающего, наличие наставника, шаблон
func (s *examService) resolveNewbie(tx *gorm.DB, actorID, newbieID uuid.UUID) (*models.User, *models.Template, error) {
	users := s.users.WithTx(tx)
	scopes := s.scopes.WithTx(tx)
	templates := s.templates.WithTx(tx)

	newbie, err := users.GetByID(newbieID)
	if err != nil {
		return nil, nil, notFound(err, apperrors.ErrNoSuchNewbie)
	}
	if newbie.Role != models.RoleNewbie {
		return nil, nil, apperrors.ErrNoSuchNewbie
	}

	actor, err := users.GetByID(actorID)
	if err != nil {
		return nil, nil, notFound(err, apperrors.ErrPermissionDenied)
	}
	if _, err := authorizeOverNewbie(users, scopes, actor, newbieID); err != nil {
		return nil, nil, err
	}

	if newbie.TutorID != nil {
		if _, err := users.GetByID(*newbie.TutorID); err != nil {
			return nil, nil, notFound(err, apperrors.ErrNoSuchTutor)
		}
	}

	template, err := templates.GetByNewbie(newbieID)
	if err != nil {
		return nil, nil, notFound(err, apperrors.ErrNoTutorAssigned)
	}
	return newbie, template, nil
}

// advance двигает состояние шаблона: первое событие прохождения переводит
// опубликованный шаблон в started, завершение всех пунктов - в complete
func (s *examService) advance(
	tx *gorm.DB,
	templates repository.TemplateRepository,
	completions repository.CompletionRepository,
	template *models.Template,
) error {
	if template.State == models.TemplatePublished {
		if err := templates.UpdateState(template.ID, models.TemplateStarted); err != nil {
			return err
		}
		template.State = models.TemplateStarted
	}
	if template.State != models.TemplateStarted {
		return nil
	}

	done, err := s.allFinished(tx, completions, template)
	if err != nil {
		return err
	}
	if !done {
		return nil
	}
	if err := templates.UpdateState(template.ID, models.TemplateComplete); err != nil {
		return err
	}
	template.State = models.TemplateComplete
	return nil
}

// allFinished проверяет завершенность каждого пункта шаблона;
// курсы считаются по живому списку разделов
func (s *examService) allFinished(tx *gorm.DB, completions repository.CompletionRepository, template *models.Template) (bool, error) {
	facts, err := completions.ListByNewbie(template.NewbieID)
	if err != nil {
		return false, err
	}
	byItem := make(map[uuid.UUID]*models.CompletionFact, len(facts))
	for i := range facts {
		byItem[facts[i].ItemID] = &facts[i]
	}

	for _, entry := range template.Exams {
		fact, ok := byItem[entry.ExamID]
		if !ok || !fact.Finished {
			return false, nil
		}
	}
	for _, entry := range template.Tasks {
		fact, ok := byItem[entry.TaskID]
		if !ok || !fact.Finished {
			return false, nil
		}
	}
	for _, entry := range template.Courses {
		course, err := s.courses.WithTx(tx).GetByID(entry.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if !courseFinished(course, sectionSet(byItem[entry.CourseID])) {
			return false, nil
		}
	}
	return true, nil
}
