package models

import (
	"time"

	"github.com/google/uuid"
)

// CompletionFact - факт прохождения одного пункта каталога новичком.
// Создается лениво при первом событии и не удаляется, пока существует пункт шаблона.
type CompletionFact struct {
	ID       uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	NewbieID uuid.UUID `json:"newbie_id" gorm:"type:text;not null;uniqueIndex:idx_completion_newbie_item,priority:1"`
	ItemID   uuid.UUID `json:"item_id" gorm:"type:text;not null;uniqueIndex:idx_completion_newbie_item,priority:2"`

	Finished bool     `json:"finished" gorm:"default:false"`
	Score    *float64 `json:"score,omitempty"` // только для экзаменов

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Связи (только для курсов)
	FinishedSections []FinishedSection `json:"finished_sections,omitempty" gorm:"foreignKey:FactID"`
}

// FinishedSection - отметка о прохождении раздела курса
type FinishedSection struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	FactID    uuid.UUID `json:"fact_id" gorm:"type:text;index;not null"`
	SectionID uuid.UUID `json:"section_id" gorm:"type:text;index;not null"`
	CreatedAt time.Time `json:"created_at"`
}
