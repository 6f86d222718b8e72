package models

import "github.com/google/uuid"

// TrainingView - агрегированное представление обучения новичка:
// пункты шаблона, метаданные каталога и факты прохождения.
// Не хранится, собирается на каждый запрос по живому каталогу.
type TrainingView struct {
	NewbieID uuid.UUID        `json:"newbie_id"`
	State    TemplateState    `json:"state"`
	Exams    []ExamProgress   `json:"exams"`
	Tasks    []TaskProgress   `json:"tasks"`
	Courses  []CourseProgress `json:"courses"`
}

// ExamProgress - прогресс новичка по одному экзамену шаблона
type ExamProgress struct {
	ExamID      uuid.UUID `json:"exam_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Day         int       `json:"day"`
	Finished    bool      `json:"finished"`
	Score       *float64  `json:"score,omitempty"`
	Passed      *bool     `json:"passed,omitempty"`
}

// TaskProgress - прогресс новичка по одному заданию шаблона
type TaskProgress struct {
	TaskID      uuid.UUID `json:"task_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Day         int       `json:"day"`
	Finished    bool      `json:"finished"`
}

// CourseProgress - прогресс новичка по одному курсу шаблона
type CourseProgress struct {
	CourseID    uuid.UUID         `json:"course_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Day         int               `json:"day"`
	Finished    bool              `json:"finished"`
	Sections    []SectionProgress `json:"sections"`
}

// SectionProgress - прогресс по разделу курса
type SectionProgress struct {
	SectionID uuid.UUID `json:"section_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Finished  bool      `json:"finished"`
}
