package repository

import (
	"onboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository интерфейс для работы с пользователями
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uuid.UUID) error
	ListByRole(role models.UserRole) ([]models.User, error)
	ListNewbiesByTutor(tutorID uuid.UUID) ([]models.User, error)
	CountByDivision(divisionID uuid.UUID) (int64, error)
	CountByCity(cityID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) UserRepository
}

// userRepository реализация репозитория пользователей
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// WithTx возвращает репозиторий, привязанный к транзакции
func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

// Create создает нового пользователя
func (r *userRepository) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return r.db.Create(user).Error
}

// GetByID получает пользователя по ID
func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername получает пользователя по логину
func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update обновляет пользователя
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete удаляет пользователя
func (r *userRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.User{}, "id = ?", id).Error
}

// ListByRole получает пользователей по роли
func (r *userRepository) ListByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ?", role).Order("created_at").Find(&users).Error
	return users, err
}

// ListNewbiesByTutor получает новичков, закрепленных за наставником
func (r *userRepository) ListNewbiesByTutor(tutorID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("role = ? AND tutor_id = ?", models.RoleNewbie, tutorID).
		Order("created_at").Find(&users).Error
	return users, err
}

// CountByDivision считает пользователей с тегом подразделения
func (r *userRepository) CountByDivision(divisionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("division_id = ?", divisionID).Count(&count).Error
	return count, err
}

// CountByCity считает пользователей с тегом города
func (r *userRepository) CountByCity(cityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("city_id = ?", cityID).Count(&count).Error
	return count, err
}
