package repository

import (
	"onboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseRepository интерфейс для работы с курсами каталога
type CourseRepository interface {
	Create(course *models.Course) error
	GetByID(id uuid.UUID) (*models.Course, error)
	List() ([]models.Course, error)
	Update(course *models.Course) error
	Delete(id uuid.UUID) error
	MarkUsed(ids []uuid.UUID) error
	MissingIDs(ids []uuid.UUID) ([]uuid.UUID, error)
	CountByDivision(divisionID uuid.UUID) (int64, error)

	GetSection(id uuid.UUID) (*models.Section, error)
	AddSection(courseID uuid.UUID, title string) (*models.Section, error)
	DeleteSection(id uuid.UUID) error
	Renumber(courseID uuid.UUID) error

	WithTx(tx *gorm.DB) CourseRepository
}

// courseRepository реализация репозитория курсов
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository создает новый репозиторий курсов
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// WithTx возвращает репозиторий, привязанный к транзакции
func (r *courseRepository) WithTx(tx *gorm.DB) CourseRepository {
	return &courseRepository{db: tx}
}

// Create создает курс вместе с разделами
func (r *courseRepository) Create(course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	for i := range course.Sections {
		if course.Sections[i].ID == uuid.Nil {
			course.Sections[i].ID = uuid.New()
		}
		course.Sections[i].CourseID = course.ID
		course.Sections[i].Position = i
	}
	return r.db.Create(course).Error
}

// GetByID получает курс с разделами в заданном порядке
func (r *courseRepository) GetByID(id uuid.UUID) (*models.Course, error) {
	var course models.Course
	err := r.db.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List получает список всех курсов
func (r *courseRepository) List() ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Order("created_at").Find(&courses).Error
	return courses, err
}

// Update обновляет курс
func (r *courseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

// Delete удаляет курс вместе с разделами
func (r *courseRepository) Delete(id uuid.UUID) error {
	if err := r.db.Where("course_id = ?", id).Delete(&models.Section{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Course{}, "id = ?", id).Error
}

// MarkUsed помечает курсы используемыми; флаг не сбрасывается
func (r *courseRepository) MarkUsed(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Course{}).Where("id IN ?", ids).Update("used", true).Error
}

// MissingIDs возвращает идентификаторы из списка, которых нет в каталоге
func (r *courseRepository) MissingIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	return missingIDs(r.db, &models.Course{}, ids)
}

// CountByDivision считает курсы с тегом подразделения
func (r *courseRepository) CountByDivision(divisionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Course{}).Where("division_id = ?", divisionID).Count(&count).Error
	return count, err
}

// GetSection получает раздел курса по ID
func (r *courseRepository) GetSection(id uuid.UUID) (*models.Section, error) {
	var section models.Section
	err := r.db.First(&section, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// AddSection добавляет раздел в конец курса
func (r *courseRepository) AddSection(courseID uuid.UUID, title string) (*models.Section, error) {
	var count int64
	if err := r.db.Model(&models.Section{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return nil, err
	}
	section := models.Section{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    title,
		Position: int(count),
	}
	if err := r.db.Create(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// DeleteSection удаляет раздел курса
func (r *courseRepository) DeleteSection(id uuid.UUID) error {
	return r.db.Delete(&models.Section{}, "id = ?", id).Error
}

// Renumber уплотняет позиции разделов курса после удаления
func (r *courseRepository) Renumber(courseID uuid.UUID) error {
	var sections []models.Section
	if err := r.db.Where("course_id = ?", courseID).Order("position").Find(&sections).Error; err != nil {
		return err
	}
	for i := range sections {
		if sections[i].Position == i {
			continue
		}
		if err := r.db.Model(&models.Section{}).Where("id = ?", sections[i].ID).
			Update("position", i).Error; err != nil {
			return err
		}
	}
	return nil
}
