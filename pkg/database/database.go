package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"onboard/internal/apperrors"
	"onboard/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database представляет подключение к базе данных
type Database struct {
	DB *gorm.DB
}

// NewDatabase создает новое подключение к базе данных
func NewDatabase(dbPath string) (*Database, error) {
	// Создаем директорию для базы данных если она не существует
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Подключаемся к SQLite базе данных
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db}

	// Автомиграция моделей
	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return database, nil
}

// Migrate выполняет миграцию базы данных
func (d *Database) Migrate() error {
	return Migrate(d.DB)
}

// Migrate выполняет миграцию всех моделей на переданном подключении
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Division{},
		&models.City{},
		&models.User{},
		&models.HRBPDivision{},
		&models.Exam{},
		&models.Question{},
		&models.Task{},
		&models.Course{},
		&models.Section{},
		&models.Template{},
		&models.TemplateExam{},
		&models.TemplateTask{},
		&models.TemplateCourse{},
		&models.CompletionFact{},
		&models.FinishedSection{},
	)
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateDefaultAdmin создает корневого администратора по умолчанию
func (d *Database) CreateDefaultAdmin(login, password string) error {
	if login == "" {
		return nil
	}

	var user models.User
	result := d.DB.Where("username = ?", login).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := models.User{
			ID:           uuid.New(),
			Username:     login,
			PasswordHash: string(hash),
			Role:         models.RoleRootAdmin,
		}

		if err := d.DB.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create default admin: %w", err)
		}
	}

	return nil
}

const (
	txAttempts = 3
	txBackoff  = 25 * time.Millisecond
)

// WithRetry выполняет fn в транзакции, повторяя ее ограниченное число раз
// при конфликте блокировок. После исчерпания попыток возвращает UNAVAILABLE.
// Ошибки бизнес-логики не повторяются и возвращаются как есть.
func WithRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		time.Sleep(txBackoff * time.Duration(attempt+1))
	}
	return apperrors.ErrUnavailable
}

// isRetryable распознает конфликты блокировок SQLite по тексту ошибки:
// драйвер не дает типизированного доступа к кодам SQLITE_BUSY/SQLITE_LOCKED
func isRetryable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}
