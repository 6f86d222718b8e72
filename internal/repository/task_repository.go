package repository

import (
	"onboard/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRepository интерфейс для работы с заданиями каталога
type TaskRepository interface {
	Create(task *models.Task) error
	GetByID(id uuid.UUID) (*models.Task, error)
	List() ([]models.Task, error)
	Update(task *models.Task) error
	Delete(id uuid.UUID) error
	MarkUsed(ids []uuid.UUID) error
	MissingIDs(ids []uuid.UUID) ([]uuid.UUID, error)
	CountByDivision(divisionID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) TaskRepository
}

// taskRepository реализация репозитория заданий
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository создает новый репозиторий заданий
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// WithTx возвращает репозиторий, привязанный к транзакции
func (r *taskRepository) WithTx(tx *gorm.DB) TaskRepository {
	return &taskRepository{db: tx}
}

// Create создает задание
func (r *taskRepository) Create(task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	return r.db.Create(task).Error
}

// GetByID получает задание по ID
func (r *taskRepository) GetByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List получает список всех заданий
func (r *taskRepository) List() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Order("created_at").Find(&tasks).Error
	return tasks, err
}

// Update обновляет задание
func (r *taskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete удаляет задание
func (r *taskRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Task{}, "id = ?", id).Error
}

// MarkUsed помечает задания используемыми; флаг не сбрасывается
func (r *taskRepository) MarkUsed(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Task{}).Where("id IN ?", ids).Update("used", true).Error
}

// MissingIDs возвращает идентификаторы из списка, которых нет в каталоге
func (r *taskRepository) MissingIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	return missingIDs(r.db, &models.Task{}, ids)
}

// CountByDivision считает задания с тегом подразделения
func (r *taskRepository) CountByDivision(divisionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("division_id = ?", divisionID).Count(&count).Error
	return count, err
}
