package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	VendaFinalizada = "finalizada"
	VendaCancelada  = "cancelada"
)

// Venda is a point-of-sale checkout. Total is persisted and only written by
// VendaRepository.RecalcularTotal.
type Venda struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero         int             `gorm:"uniqueIndex;not null"`
	UsuarioID      *uuid.UUID      `gorm:"type:uuid;index"`
	ClienteID      *uuid.UUID      `gorm:"type:uuid;index"`
	Status         string          `gorm:"type:varchar(20);not null;default:'finalizada';index"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FormaPagamento *string         `gorm:"type:varchar(30)"`
	Observacoes    *string
	DataVenda      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time

	Itens   []ItemVenda `gorm:"foreignKey:VendaID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
}

// ItemVenda keeps the price charged at sale time, independent of later price changes.
type ItemVenda struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoteID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantidade           int             `gorm:"not null"`
	PrecoUnitarioVendido decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal             decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
	Lote    *Lote    `gorm:"foreignKey:LoteID"`
}

func (ItemVenda) TableName() string { return "itens_venda" }
