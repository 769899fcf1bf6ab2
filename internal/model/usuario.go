package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RolOperador      = "operador"
	RolGerente       = "gerente"
	RolAdministrador = "administrador"
)

// Usuario is a back-office user.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Ativo        bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
