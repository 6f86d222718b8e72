package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateState - состояние жизненного цикла шаблона обучения
type TemplateState string

const (
	TemplateUnassigned TemplateState = "unassigned" // шаблон еще не собран
	TemplateStaged     TemplateState = "staged"     // собран, виден только наставнику
	TemplatePublished  TemplateState = "published"  // опубликован новичку
	TemplateStarted    TemplateState = "started"    // новичок начал обучение
	TemplateComplete   TemplateState = "complete"   // все пункты завершены
)

// CanReassign сообщает, допускает ли состояние полную замену шаблона.
// После первого события прохождения шаблон заменять нельзя.
func (s TemplateState) CanReassign() bool {
	switch s {
	case TemplateUnassigned, TemplateStaged, TemplatePublished:
		return true
	}
	return false
}

// Transition проверяет допустимость перехода между состояниями.
// Жизненный цикл движется только вперед: staged -> published -> started -> complete.
func (s TemplateState) Transition(next TemplateState) bool {
	switch s {
	case TemplateUnassigned:
		return next == TemplateStaged || next == TemplatePublished
	case TemplateStaged:
		return next == TemplateStaged || next == TemplatePublished
	case TemplatePublished:
		return next == TemplateStaged || next == TemplatePublished || next == TemplateStarted
	case TemplateStarted:
		return next == TemplateComplete
	case TemplateComplete:
		return false
	}
	return false
}

// Template - шаблон обучения новичка, ровно один на новичка
type Template struct {
	ID       uuid.UUID     `json:"id" gorm:"type:text;primary_key"`
	NewbieID uuid.UUID     `json:"newbie_id" gorm:"type:text;uniqueIndex;not null"`
	State    TemplateState `json:"state" gorm:"not null;default:'unassigned'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи
	Newbie  User             `json:"-" gorm:"foreignKey:NewbieID"`
	Exams   []TemplateExam   `json:"exams" gorm:"foreignKey:TemplateID"`
	Tasks   []TemplateTask   `json:"tasks" gorm:"foreignKey:TemplateID"`
	Courses []TemplateCourse `json:"courses" gorm:"foreignKey:TemplateID"`
}

// TemplateExam - пункт шаблона, ссылающийся на экзамен каталога
type TemplateExam struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	TemplateID uuid.UUID `json:"template_id" gorm:"type:text;index;not null"`
	ExamID     uuid.UUID `json:"exam_id" gorm:"type:text;not null"`
	Day        int       `json:"day"` // рекомендуемый день от начала обучения
	Position   int       `json:"position" gorm:"not null"`
}

// TemplateTask - пункт шаблона, ссылающийся на задание каталога
type TemplateTask struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	TemplateID uuid.UUID `json:"template_id" gorm:"type:text;index;not null"`
	TaskID     uuid.UUID `json:"task_id" gorm:"type:text;not null"`
	Day        int       `json:"day"`
	Position   int       `json:"position" gorm:"not null"`
}

// TemplateCourse - пункт шаблона, ссылающийся на курс каталога
type TemplateCourse struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	TemplateID uuid.UUID `json:"template_id" gorm:"type:text;index;not null"`
	CourseID   uuid.UUID `json:"course_id" gorm:"type:text;not null"`
	Day        int       `json:"day"`
	Position   int       `json:"position" gorm:"not null"`
}
