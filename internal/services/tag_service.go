package services

import (
	"errors"

	"onboard/internal/apperrors"
	"onboard/internal/models"
	"onboard/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagService управляет подразделениями и городами.
// Имена уникальны без учета регистра внутри своего вида;
// тег нельзя удалить, пока на него есть ссылки.
type TagService interface {
	CreateDivision(actorID uuid.UUID, name string) (*models.Division, error)
	ListDivisions() ([]models.Division, error)
	DeleteDivision(actorID, id uuid.UUID) error

	CreateCity(actorID uuid.UUID, name string) (*models.City, error)
	ListCities() ([]models.City, error)
	DeleteCity(actorID, id uuid.UUID) error
}

type tagService struct {
	tags    repository.TagRepository
	users   repository.UserRepository
	scopes  repository.ScopeRepository
	exams   repository.ExamRepository
	tasks   repository.TaskRepository
	courses repository.CourseRepository
}

// NewTagService создает новый сервис тегов
func NewTagService(
	tags repository.TagRepository,
	users repository.UserRepository,
	scopes repository.ScopeRepository,
	exams repository.ExamRepository,
	tasks repository.TaskRepository,
	courses repository.CourseRepository,
) TagService {
	return &tagService{
		tags:    tags,
		users:   users,
		scopes:  scopes,
		exams:   exams,
		tasks:   tasks,
		courses: courses,
	}
}

// CreateDivision создает подразделение; совпадение имени в любом регистре - ошибка
func (s *tagService) CreateDivision(actorID uuid.UUID, name string) (*models.Division, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	if _, err := s.tags.GetDivisionByName(name); err == nil {
		return nil, apperrors.ErrDuplicateName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	division := &models.Division{ID: uuid.New(), Name: name}
	if err := s.tags.CreateDivision(division); err != nil {
		return nil, err
	}
	return division, nil
}

// ListDivisions получает все подразделения
func (s *tagService) ListDivisions() ([]models.Division, error) {
	return s.tags.ListDivisions()
}

// DeleteDivision удаляет подразделение, если на него никто не ссылается
func (s *tagService) DeleteDivision(actorID, id uuid.UUID) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	if _, err := s.tags.GetDivision(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidDivision
		}
		return err
	}
	used, err := s.divisionReferenced(id)
	if err != nil {
		return err
	}
	if used {
		return apperrors.ErrTagUsed
	}
	return s.tags.DeleteDivision(id)
}

// CreateCity создает город; совпадение имени в любом регистре - ошибка
func (s *tagService) CreateCity(actorID uuid.UUID, name string) (*models.City, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	if _, err := s.tags.GetCityByName(name); err == nil {
		return nil, apperrors.ErrDuplicateName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	city := &models.City{ID: uuid.New(), Name: name}
	if err := s.tags.CreateCity(city); err != nil {
		return nil, err
	}
	return city, nil
}

// ListCities получает все города
func (s *tagService) ListCities() ([]models.City, error) {
	return s.tags.ListCities()
}

// DeleteCity удаляет город, если на него никто не ссылается
func (s *tagService) DeleteCity(actorID, id uuid.UUID) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	if _, err := s.tags.GetCity(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidCity
		}
		return err
	}
	count, err := s.users.CountByCity(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrTagUsed
	}
	return s.tags.DeleteCity(id)
}

// divisionReferenced проверяет ссылки на подразделение из пользователей,
// каталога и областей прав HRBP
func (s *tagService) divisionReferenced(id uuid.UUID) (bool, error) {
	counters := []func(uuid.UUID) (int64, error){
		s.users.CountByDivision,
		s.scopes.CountByDivision,
		s.exams.CountByDivision,
		s.tasks.CountByDivision,
		s.courses.CountByDivision,
	}
	for _, count := range counters {
		n, err := count(id)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// requireAdmin проверяет, что теги меняет корневой администратор
func (s *tagService) requireAdmin(actorID uuid.UUID) error {
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPermissionDenied
		}
		return err
	}
	if actor.Role != models.RoleRootAdmin {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
