package repository

import (
	"errors"
	"time"

	"onboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompletionRepository интерфейс для работы с фактами прохождения
type CompletionRepository interface {
	Get(newbieID, itemID uuid.UUID) (*models.CompletionFact, error)
	GetOrCreate(newbieID, itemID uuid.UUID) (*models.CompletionFact, error)
	Save(fact *models.CompletionFact) error
	ListByNewbie(newbieID uuid.UUID) ([]models.CompletionFact, error)
	AddFinishedSection(factID, sectionID uuid.UUID) error
	SectionReferenced(sectionID uuid.UUID) (bool, error)
	WithTx(tx *gorm.DB) CompletionRepository
}

// completionRepository реализация репозитория фактов прохождения
type completionRepository struct {
	db *gorm.DB
}

// NewCompletionRepository создает новый репозиторий фактов прохождения
func NewCompletionRepository(db *gorm.DB) CompletionRepository {
	return &completionRepository{db: db}
}

// WithTx возвращает репозиторий, привязанный к транзакции
func (r *completionRepository) WithTx(tx *gorm.DB) CompletionRepository {
	return &completionRepository{db: tx}
}

// Get получает факт прохождения пункта новичком
func (r *completionRepository) Get(newbieID, itemID uuid.UUID) (*models.CompletionFact, error) {
	var fact models.CompletionFact
	err := r.db.Preload("FinishedSections").
		Where("newbie_id = ? AND item_id = ?", newbieID, itemID).
		First(&fact).Error
	if err != nil {
		return nil, err
	}
	return &fact, nil
}

// GetOrCreate получает факт прохождения, лениво создавая его при первом событии
func (r *completionRepository) GetOrCreate(newbieID, itemID uuid.UUID) (*models.CompletionFact, error) {
	fact, err := r.Get(newbieID, itemID)
	if err == nil {
		return fact, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	fact = &models.CompletionFact{
		ID:       uuid.New(),
		NewbieID: newbieID,
		ItemID:   itemID,
	}
	if err := r.db.Create(fact).Error; err != nil {
		return nil, err
	}
	return fact, nil
}

// Save сохраняет факт прохождения
func (r *completionRepository) Save(fact *models.CompletionFact) error {
	fact.UpdatedAt = time.Now()
	return r.db.Omit("FinishedSections").Save(fact).Error
}

// ListByNewbie получает все факты прохождения новичка
func (r *completionRepository) ListByNewbie(newbieID uuid.UUID) ([]models.CompletionFact, error) {
	var facts []models.CompletionFact
	err := r.db.Preload("FinishedSections").
		Where("newbie_id = ?", newbieID).Find(&facts).Error
	return facts, err
}

// AddFinishedSection добавляет отметку о прохождении раздела; повторная отметка не дублируется
func (r *completionRepository) AddFinishedSection(factID, sectionID uuid.UUID) error {
	var count int64
	err := r.db.Model(&models.FinishedSection{}).
		Where("fact_id = ? AND section_id = ?", factID, sectionID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	entry := models.FinishedSection{
		ID:        uuid.New(),
		FactID:    factID,
		SectionID: sectionID,
	}
	return r.db.Create(&entry).Error
}

// SectionReferenced проверяет, отмечен ли раздел пройденным хотя бы одним новичком
func (r *completionRepository) SectionReferenced(sectionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.FinishedSection{}).
		Where("section_id = ?", sectionID).Count(&count).Error
	return count > 0, err
}
