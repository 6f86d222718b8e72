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

// PermissionService решает, кто и над кем может выполнять операции.
// Корневой администратор может все; HRBP действует в пределах выданных
// подразделений; наставник - только над своими новичками; новичок - над собой.
type PermissionService interface {
	AuthorizeNewbie(actorID, newbieID uuid.UUID) (*models.User, error)
	AuthorizeCatalog(actorID uuid.UUID, divisionID *uuid.UUID) error
	SetScope(actorID, hrbpID uuid.UUID, divisionIDs []uuid.UUID) error
	GetScope(actorID, hrbpID uuid.UUID) ([]models.Division, error)
}

type permissionService struct {
	db     *gorm.DB
	users  repository.UserRepository
	scopes repository.ScopeRepository
	tags   repository.TagRepository
}

// NewPermissionService создает новый сервис прав доступа
func NewPermissionService(db *gorm.DB, users repository.UserRepository, scopes repository.ScopeRepository, tags repository.TagRepository) PermissionService {
	return &permissionService{db: db, users: users, scopes: scopes, tags: tags}
}

// AuthorizeNewbie проверяет право действовать над новичком и возвращает его.
// Сначала разрешается личность вызывающего, затем существование цели.
func (s *permissionService) AuthorizeNewbie(actorID, newbieID uuid.UUID) (*models.User, error) {
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPermissionDenied
		}
		return nil, err
	}
	return authorizeOverNewbie(s.users, s.scopes, actor, newbieID)
}

// AuthorizeCatalog проверяет право изменять элемент каталога с данным тегом
// подразделения. Элементы без тега может менять только администратор.
func (s *permissionService) AuthorizeCatalog(actorID uuid.UUID, divisionID *uuid.UUID) error {
	actor, err := s.users.GetByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPermissionDenied
		}
		return err
	}
	switch actor.Role {
	case models.RoleRootAdmin:
		return nil
	case models.RoleHRBP:
		if divisionID == nil {
			return apperrors.ErrPermissionDenied
		}
		ok, err := s.scopes.Has(actor.ID, *divisionID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ErrPermissionDenied
		}
		return nil
	}
	return apperrors.ErrPermissionDenied
}

// SetScope целиком заменяет набор подразделений HRBP. Применяется атомарно:
// при любом неизвестном подразделении не меняется ничего.
func (s *permissionService) SetScope(actorID, hrbpID uuid.UUID, divisionIDs []uuid.UUID) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}
	if err := s.requireHRBP(hrbpID); err != nil {
		return err
	}
	missing, err := s.tags.MissingDivisions(divisionIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperrors.ErrInvalidDivision
	}
	return database.WithRetry(s.db, func(tx *gorm.DB) error {
		return s.scopes.WithTx(tx).Replace(hrbpID, divisionIDs)
	})
}

// GetScope возвращает набор подразделений HRBP
func (s *permissionService) GetScope(actorID, hrbpID uuid.UUID) ([]models.Division, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}
	if err := s.requireHRBP(hrbpID); err != nil {
		return nil, err
	}
	return s.scopes.ListDivisions(hrbpID)
}

// requireAdmin проверяет, что идентификатор принадлежит корневому администратору
func (s *permissionService) requireAdmin(id uuid.UUID) error {
	actor, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoSuchAdmin
		}
		return err
	}
	if actor.Role != models.RoleRootAdmin {
		return apperrors.ErrNoSuchAdmin
	}
	return nil
}

// requireHRBP проверяет, что идентификатор принадлежит HRBP
func (s *permissionService) requireHRBP(id uuid.UUID) error {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoSuchHRBP
		}
		return err
	}
	if user.Role != models.RoleHRBP {
		return apperrors.ErrNoSuchHRBP
	}
	return nil
}

// authorizeOverNewbie - общая проверка права действовать над новичком.
// Используется и сервисом прав, и транзакционными сервисами, которым нужна
// та же проверка внутри своей транзакции. Закрытый разбор по ролям.
func authorizeOverNewbie(users repository.UserRepository, scopes repository.ScopeRepository, actor *models.User, newbieID uuid.UUID) (*models.User, error) {
	newbie, err := users.GetByID(newbieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoSuchNewbie
		}
		return nil, err
	}
	if newbie.Role != models.RoleNewbie {
		return nil, apperrors.ErrNoSuchNewbie
	}

	switch actor.Role {
	case models.RoleRootAdmin:
		return newbie, nil
	case models.RoleHRBP:
		if newbie.DivisionID == nil {
			return nil, apperrors.ErrPermissionDenied
		}
		ok, err := scopes.Has(actor.ID, *newbie.DivisionID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperrors.ErrPermissionDenied
		}
		return newbie, nil
	case models.RoleTutor:
		if newbie.TutorID == nil || *newbie.TutorID != actor.ID {
			return nil, apperrors.ErrPermissionDenied
		}
		return newbie, nil
	case models.RoleNewbie:
		if actor.ID != newbieID {
			return nil, apperrors.ErrPermissionDenied
		}
		return newbie, nil
	}
	return nil, apperrors.ErrPermissionDenied
}
