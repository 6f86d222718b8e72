package repository

import (
	"onboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExamRepository интерфейс для работы с экзаменами каталога
type ExamRepository interface {
	Create(exam *models.Exam) error
	GetByID(id uuid.UUID) (*models.Exam, error)
	List() ([]models.Exam, error)
	Update(exam *models.Exam) error
	Delete(id uuid.UUID) error
	MarkUsed(ids []uuid.UUID) error
	MissingIDs(ids []uuid.UUID) ([]uuid.UUID, error)
	CountByDivision(divisionID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) ExamRepository
}

// examRepository реализация репозитория экзаменов
type examRepository struct {
	db *gorm.DB
}

// NewExamRepository создает новый репозиторий экзаменов
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

// WithTx возвращает репозиторий, привязанный к транзакции
func (r *examRepository) WithTx(tx *gorm.DB) ExamRepository {
	return &examRepository{db: tx}
}

// Create создает экзамен вместе с вопросами
func (r *examRepository) Create(exam *models.Exam) error {
	if exam.ID == uuid.Nil {
		exam.ID = uuid.New()
	}
	for i := range exam.Questions {
		if exam.Questions[i].ID == uuid.Nil {
			exam.Questions[i].ID = uuid.New()
		}
		exam.Questions[i].ExamID = exam.ID
		exam.Questions[i].Position = i
	}
	return r.db.Create(exam).Error
}

// GetByID получает экзамен с вопросами в каноническом порядке
func (r *examRepository) GetByID(id uuid.UUID) (*models.Exam, error) {
	var exam models.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).First(&exam, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// List получает список всех экзаменов
func (r *examRepository) List() ([]models.Exam, error) {
	var exams []models.Exam
	err := r.db.Order("created_at").Find(&exams).Error
	return exams, err
}

// Update обновляет экзамен
func (r *examRepository) Update(exam *models.Exam) error {
	return r.db.Save(exam).Error
}

// Delete удаляет экзамен
func (r *examRepository) Delete(id uuid.UUID) error {
	if err := r.db.Where("exam_id = ?", id).Delete(&models.Question{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Exam{}, "id = ?", id).Error
}

// MarkUsed помечает экзамены используемыми; флаг не сбрасывается
func (r *examRepository) MarkUsed(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Exam{}).Where("id IN ?", ids).Update("used", true).Error
}

// MissingIDs возвращает идентификаторы из списка, которых нет в каталоге
func (r *examRepository) MissingIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	return missingIDs(r.db, &models.Exam{}, ids)
}

// CountByDivision считает экзамены с тегом подразделения
func (r *examRepository) CountByDivision(divisionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Exam{}).Where("division_id = ?", divisionID).Count(&count).Error
	return count, err
}

// missingIDs возвращает идентификаторы, отсутствующие в таблице модели
func missingIDs(db *gorm.DB, model interface{}, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	if err := db.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
