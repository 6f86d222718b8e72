package services

import (
	"onboard/internal/apperrors"
	"onboard/internal/models"
	"onboard/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CreateUserInput - параметры создания пользователя
type CreateUserInput struct {
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Role       models.UserRole `json:"role"`
	DivisionID *uuid.UUID      `json:"division_id"`
	CityID     *uuid.UUID      `json:"city_id"`
}

// UserService управляет справочником пользователей: создание, списки,
// закрепление наставника за новичком.
type UserService interface {
	CreateUser(actorID uuid.UUID, input CreateUserInput) (*models.User, error)
	GetUser(actorID, id uuid.UUID) (*models.User, error)
	ListByRole(actorID uuid.UUID, role models.UserRole) ([]models.User, error)
	ListNewbies(actorID uuid.UUID) ([]models.User, error)
	AssignTutor(actorID, newbieID, tutorID uuid.UUID) error
}

type userService struct {
	users  repository.UserRepository
	tags   repository.TagRepository
	scopes repository.ScopeRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(users repository.UserRepository, tags repository.TagRepository, scopes repository.ScopeRepository) UserService {
	return &userService{users: users, tags: tags, scopes: scopes}
}

// CreateUser создает пользователя. Администратор создает кого угодно,
// HRBP - наставников и новичков только в своих подразделениях.
func (s *userService) CreateUser(actorID uuid.UUID, input CreateUserInput) (*models.User, error) {
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPermissionDenied)
	}

	switch actor.Role {
	case models.RoleRootAdmin:
	case models.RoleHRBP:
		if input.Role != models.RoleTutor && input.Role != models.RoleNewbie {
			return nil, apperrors.ErrPermissionDenied
		}
		if input.DivisionID == nil {
			return nil, apperrors.ErrPermissionDenied
		}
		ok, err := s.scopes.Has(actor.ID, *input.DivisionID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.ErrPermissionDenied
		}
	default:
		return nil, apperrors.ErrPermissionDenied
	}

	if input.DivisionID != nil {
		if _, err := s.tags.GetDivision(*input.DivisionID); err != nil {
			return nil, notFound(err, apperrors.ErrInvalidDivision)
		}
	}
	if input.CityID != nil {
		if _, err := s.tags.GetCity(*input.CityID); err != nil {
			return nil, notFound(err, apperrors.ErrInvalidCity)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		DivisionID:   input.DivisionID,
		CityID:       input.CityID,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser получает пользователя по ID
func (s *userService) GetUser(actorID, id uuid.UUID) (*models.User, error) {
	if actorID != id {
		actor, err := s.users.GetByID(actorID)
		if err != nil {
			return nil, notFound(err, apperrors.ErrPermissionDenied)
		}
		switch actor.Role {
		case models.RoleRootAdmin, models.RoleHRBP, models.RoleTutor:
		default:
			return nil, apperrors.ErrPermissionDenied
		}
	}
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrNoSuchUser)
	}
	return user, nil
}

// ListByRole получает пользователей по роли; доступно администратору и HRBP
func (s *userService) ListByRole(actorID uuid.UUID, role models.UserRole) ([]models.User, error) {
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPermissionDenied)
	}
	if actor.Role != models.RoleRootAdmin && actor.Role != models.RoleHRBP {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.users.ListByRole(role)
}

// ListNewbies получает новичков в зоне ответственности вызывающего
func (s *userService) ListNewbies(actorID uuid.UUID) ([]models.User, error) {
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPermissionDenied)
	}
	switch actor.Role {
	case models.RoleRootAdmin:
		return s.users.ListByRole(models.RoleNewbie)
	case models.RoleHRBP:
		all, err := s.users.ListByRole(models.RoleNewbie)
		if err != nil {
			return nil, err
		}
		scoped := make([]models.User, 0, len(all))
		for _, newbie := range all {
			if newbie.DivisionID == nil {
				continue
			}
			ok, err := s.scopes.Has(actor.ID, *newbie.DivisionID)
			if err != nil {
				return nil, err
			}
			if ok {
				scoped = append(scoped, newbie)
			}
		}
		return scoped, nil
	case models.RoleTutor:
		return s.users.ListNewbiesByTutor(actor.ID)
	}
	return nil, apperrors.ErrPermissionDenied
}

// AssignTutor закрепляет наставника за новичком
func (s *userService) AssignTutor(actorID, newbieID, tutorID uuid.UUID) error {
	newbie, err := s.users.GetByID(newbieID)
	if err != nil {
		return notFound(err, apperrors.ErrNoSuchNewbie)
	}
	if newbie.Role != models.RoleNewbie {
		return apperrors.ErrNoSuchNewbie
	}

	actor, err := s.users.GetByID(actorID)
	if err != nil {
		return notFound(err, apperrors.ErrPermissionDenied)
	}
	switch actor.Role {
	case models.RoleRootAdmin:
	case models.RoleHRBP:
		if newbie.DivisionID == nil {
			return apperrors.ErrPermissionDenied
		}
		ok, err := s.scopes.Has(actor.ID, *newbie.DivisionID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrPermissionDenied
		}
	default:
		return apperrors.ErrPermissionDenied
	}

	tutor, err := s.users.GetByID(tutorID)
	if err != nil {
		return notFound(err, apperrors.ErrNoSuchTutor)
	}
	if tutor.Role != models.RoleTutor {
		return apperrors.ErrNoSuchTutor
	}

	newbie.TutorID = &tutor.ID
	return s.users.Update(newbie)
}
