package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exam - экзамен каталога обучения
type Exam struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"` // JSON массив тегов

	// Подразделение, к которому привязан экзамен (nil - общий)
	DivisionID *uuid.UUID `json:"division_id,omitempty" gorm:"type:text"`

	// Порог сдачи, доля правильных ответов [0..1]
	PassThreshold float64 `json:"pass_threshold" gorm:"not null;default:0.6"`

	// Используется хотя бы одним шаблоном; после установки не сбрасывается
	Used bool `json:"used" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Division  *Division  `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	Questions []Question `json:"questions" gorm:"foreignKey:ExamID"`
}

// Question - вопрос экзамена с вариантами ответа
type Question struct {
	ID       uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	ExamID   uuid.UUID `json:"exam_id" gorm:"type:text;index;not null"`
	Text     string    `json:"text" gorm:"not null"`
	Options  string    `json:"options" gorm:"not null"` // JSON массив вариантов
	Correct  int       `json:"-" gorm:"not null"`       // индекс правильного варианта
	Position int       `json:"position" gorm:"not null"`
}

// OptionList разбирает JSON со списком вариантов ответа
func (q *Question) OptionList() []string {
	var opts []string
	if err := json.Unmarshal([]byte(q.Options), &opts); err != nil {
		return nil
	}
	return opts
}

// Task - разовое задание каталога обучения
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"` // JSON массив тегов

	DivisionID *uuid.UUID `json:"division_id,omitempty" gorm:"type:text"`
	Used       bool       `json:"used" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Division *Division `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
}

// Course - курс каталога обучения с упорядоченными разделами
type Course struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"` // JSON массив тегов

	DivisionID *uuid.UUID `json:"division_id,omitempty" gorm:"type:text"`
	Used       bool       `json:"used" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Division *Division `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	Sections []Section `json:"sections" gorm:"foreignKey:CourseID"`
}

// Section - раздел курса; порядок задается полем Position, а не идентификатором
type Section struct {
	ID       uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	CourseID uuid.UUID `json:"course_id" gorm:"type:text;index;not null"`
	Title    string    `json:"title" gorm:"not null"`
	Position int       `json:"position" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

// TagList разбирает JSON со списком тегов
func TagList(tags string) []string {
	if tags == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(tags), &list); err != nil {
		return nil
	}
	return list
}
