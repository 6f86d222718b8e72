package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole определяет роли пользователей
type UserRole string

const (
	RoleRootAdmin UserRole = "root_admin"
	RoleHRBP      UserRole = "hrbp"
	RoleTutor     UserRole = "tutor"
	RoleNewbie    UserRole = "newbie"
)

// User представляет пользователя системы
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         UserRole  `json:"role" gorm:"not null"`

	// Теги подразделения и города
	DivisionID *uuid.UUID `json:"division_id,omitempty" gorm:"type:text"`
	CityID     *uuid.UUID `json:"city_id,omitempty" gorm:"type:text"`

	// Наставник (только для новичков, nil пока не назначен)
	TutorID *uuid.UUID `json:"tutor_id,omitempty" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Связи
	Division *Division `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	City     *City     `json:"city,omitempty" gorm:"foreignKey:CityID"`
	Tutor    *User     `json:"tutor,omitempty" gorm:"foreignKey:TutorID"`
}

// HRBPDivision связывает HRBP с подразделением, на которое распространяются его права
type HRBPDivision struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primary_key"`
	HRBPID     uuid.UUID `json:"hrbp_id" gorm:"type:text;index;not null"`
	DivisionID uuid.UUID `json:"division_id" gorm:"type:text;index;not null"`
	CreatedAt  time.Time `json:"created_at"`

	// Связи
	HRBP     User     `json:"-" gorm:"foreignKey:HRBPID"`
	Division Division `json:"-" gorm:"foreignKey:DivisionID"`
}
