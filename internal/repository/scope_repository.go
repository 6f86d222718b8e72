package repository

import (
	"onboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScopeRepository интерфейс для работы с областями прав HRBP
type ScopeRepository interface {
	Replace(hrbpID uuid.UUID, divisionIDs []uuid.UUID) error
	ListDivisionIDs(hrbpID uuid.UUID) ([]uuid.UUID, error)
	ListDivisions(hrbpID uuid.UUID) ([]models.Division, error)
	Has(hrbpID, divisionID uuid.UUID) (bool, error)
	CountByDivision(divisionID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) ScopeRepository
}

// scopeRepository реализация репозитория областей прав
type scopeRepository struct {
	db *gorm.DB
}

// NewScopeRepository создает новый репозиторий областей прав
func NewScopeRepository(db *gorm.DB) ScopeRepository {
	return &scopeRepository{db: db}
}

// WithTx возвращает репозиторий, привязанный к транзакции
func (r *scopeRepository) WithTx(tx *gorm.DB) ScopeRepository {
	return &scopeRepository{db: tx}
}

// Replace целиком заменяет набор подразделений HRBP
func (r *scopeRepository) Replace(hrbpID uuid.UUID, divisionIDs []uuid.UUID) error {
	if err := r.db.Where("hrbp_id = ?", hrbpID).Delete(&models.HRBPDivision{}).Error; err != nil {
		return err
	}
	for _, divisionID := range divisionIDs {
		entry := models.HRBPDivision{
			ID:         uuid.New(),
			HRBPID:     hrbpID,
			DivisionID: divisionID,
		}
		if err := r.db.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListDivisionIDs получает идентификаторы подразделений из области HRBP
func (r *scopeRepository) ListDivisionIDs(hrbpID uuid.UUID) ([]uuid.UUID, error) {
	var entries []models.HRBPDivision
	if err := r.db.Where("hrbp_id = ?", hrbpID).Order("created_at").Find(&entries).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.DivisionID)
	}
	return ids, nil
}

// ListDivisions получает подразделения из области HRBP
func (r *scopeRepository) ListDivisions(hrbpID uuid.UUID) ([]models.Division, error) {
	ids, err := r.ListDivisionIDs(hrbpID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Division{}, nil
	}
	var divisions []models.Division
	err = r.db.Where("id IN ?", ids).Find(&divisions).Error
	return divisions, err
}

// Has проверяет, входит ли подразделение в область HRBP
func (r *scopeRepository) Has(hrbpID, divisionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.HRBPDivision{}).
		Where("hrbp_id = ? AND division_id = ?", hrbpID, divisionID).
		Count(&count).Error
	return count > 0, err
}

// CountByDivision считает записи областей, ссылающиеся на подразделение
func (r *scopeRepository) CountByDivision(divisionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.HRBPDivision{}).Where("division_id = ?", divisionID).Count(&count).Error
	return count, err
}
