package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MovimentoEntrada  = "entrada"
	MovimentoRetirada = "retirada"
)

// MovimentoCaixa is a manual cash drawer entry. Valor is always positive;
// Tipo carries the direction. The drawer balance is never stored.
type MovimentoCaixa struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo      string          `gorm:"type:varchar(10);not null"`
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao string          `gorm:"not null;default:''"`
	UsuarioID *uuid.UUID      `gorm:"type:uuid"`
	DataHora  time.Time       `gorm:"not null;index"`
}

func (MovimentoCaixa) TableName() string { return "movimentos_caixa" }
