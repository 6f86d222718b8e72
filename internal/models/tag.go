package models

import (
	"time"

	"github.com/google/uuid"
)

// Division - подразделение компании, используется как тег контента и как область прав HRBP
type Division struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// City - город, используется только как тег пользователей
type City struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
