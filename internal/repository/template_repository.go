package repository

import (
	"onboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateRepository интерфейс для работы с шаблонами обучения
type TemplateRepository interface {
	GetByNewbie(newbieID uuid.UUID) (*models.Template, error)
	Create(template *models.Template) error
	ReplaceEntries(template *models.Template) error
	UpdateState(id uuid.UUID, state models.TemplateState) error
	WithTx(tx *gorm.DB) TemplateRepository
}

// templateRepository реализация репозитория шаблонов
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository создает новый репозиторий шаблонов
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// WithTx возвращает репозиторий, привязанный к транзакции
func (r *templateRepository) WithTx(tx *gorm.DB) TemplateRepository {
	return &templateRepository{db: tx}
}

// GetByNewbie получает шаблон новичка с пунктами в порядке добавления
func (r *templateRepository) GetByNewbie(newbieID uuid.UUID) (*models.Template, error) {
	var template models.Template
	err := r.db.
		Preload("Exams", orderByPosition).
		Preload("Tasks", orderByPosition).
		Preload("Courses", orderByPosition).
		Where("newbie_id = ?", newbieID).
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// Create создает шаблон вместе с пунктами
func (r *templateRepository) Create(template *models.Template) error {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	numberEntries(template)
	return r.db.Create(template).Error
}

// ReplaceEntries целиком заменяет пункты шаблона и его состояние
func (r *templateRepository) ReplaceEntries(template *models.Template) error {
	if err := r.db.Where("template_id = ?", template.ID).Delete(&models.TemplateExam{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("template_id = ?", template.ID).Delete(&models.TemplateTask{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("template_id = ?", template.ID).Delete(&models.TemplateCourse{}).Error; err != nil {
		return err
	}
	numberEntries(template)
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(template).Error
}

// UpdateState обновляет состояние жизненного цикла шаблона
func (r *templateRepository) UpdateState(id uuid.UUID, state models.TemplateState) error {
	return r.db.Model(&models.Template{}).Where("id = ?", id).Update("state", state).Error
}

// orderByPosition сортирует пункты шаблона по позиции
func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// numberEntries проставляет идентификаторы и позиции пунктам шаблона
func numberEntries(template *models.Template) {
	for i := range template.Exams {
		if template.Exams[i].ID == uuid.Nil {
			template.Exams[i].ID = uuid.New()
		}
		template.Exams[i].TemplateID = template.ID
		template.Exams[i].Position = i
	}
	for i := range template.Tasks {
		if template.Tasks[i].ID == uuid.Nil {
			template.Tasks[i].ID = uuid.New()
		}
		template.Tasks[i].TemplateID = template.ID
		template.Tasks[i].Position = i
	}
	for i := range template.Courses {
		if template.Courses[i].ID == uuid.Nil {
			template.Courses[i].ID = uuid.New()
		}
		template.Courses[i].TemplateID = template.ID
		template.Courses[i].Position = i
	}
}
