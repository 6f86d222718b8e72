package repository

import (
	"onboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagRepository интерфейс для работы с тегами (подразделения и города)
type TagRepository interface {
	CreateDivision(division *models.Division) error
	GetDivision(id uuid.UUID) (*models.Division, error)
	GetDivisionByName(name string) (*models.Division, error)
	ListDivisions() ([]models.Division, error)
	DeleteDivision(id uuid.UUID) error
	MissingDivisions(ids []uuid.UUID) ([]uuid.UUID, error)

	CreateCity(city *models.City) error
	GetCity(id uuid.UUID) (*models.City, error)
	GetCityByName(name string) (*models.City, error)
	ListCities() ([]models.City, error)
	DeleteCity(id uuid.UUID) error

	WithTx(tx *gorm.DB) TagRepository
}

// tagRepository реализация репозитория тегов
type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository создает новый репозиторий тегов
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// WithTx возвращает репозиторий, привязанный к транзакции
func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

// CreateDivision создает подразделение
func (r *tagRepository) CreateDivision(division *models.Division) error {
	if division.ID == uuid.Nil {
		division.ID = uuid.New()
	}
	return r.db.Create(division).Error
}

// GetDivision получает подразделение по ID
func (r *tagRepository) GetDivision(id uuid.UUID) (*models.Division, error) {
	var division models.Division
	err := r.db.First(&division, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

// GetDivisionByName ищет подразделение по имени без учета регистра
func (r *tagRepository) GetDivisionByName(name string) (*models.Division, error) {
	var division models.Division
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&division).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

// ListDivisions получает список всех подразделений
func (r *tagRepository) ListDivisions() ([]models.Division, error) {
	var divisions []models.Division
	err := r.db.Order("created_at").Find(&divisions).Error
	return divisions, err
}

// DeleteDivision удаляет подразделение
func (r *tagRepository) DeleteDivision(id uuid.UUID) error {
	return r.db.Delete(&models.Division{}, "id = ?", id).Error
}

// MissingDivisions возвращает идентификаторы из списка, которых нет в базе
func (r *tagRepository) MissingDivisions(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Division
	if err := r.db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, d := range found {
		known[d.ID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CreateCity создает город
func (r *tagRepository) CreateCity(city *models.City) error {
	if city.ID == uuid.Nil {
		city.ID = uuid.New()
	}
	return r.db.Create(city).Error
}

// GetCity получает город по ID
func (r *tagRepository) GetCity(id uuid.UUID) (*models.City, error) {
	var city models.City
	err := r.db.First(&city, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// GetCityByName ищет город по имени без учета регистра
func (r *tagRepository) GetCityByName(name string) (*models.City, error) {
	var city models.City
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&city).Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// ListCities получает список всех городов
func (r *tagRepository) ListCities() ([]models.City, error) {
	var cities []models.City
	err := r.db.Order("created_at").Find(&cities).Error
	return cities, err
}

// DeleteCity удаляет город
func (r *tagRepository) DeleteCity(id uuid.UUID) error {
	return r.db.Delete(&models.City{}, "id = ?", id).Error
}
