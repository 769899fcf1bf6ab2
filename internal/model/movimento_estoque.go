package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos of MovimentoEstoque.
const (
	EstoqueVenda         = "venda"
	EstoqueExclusaoVenda = "exclusao_venda"
	EstoqueCancelamento  = "cancelamento"
	EstoquePedido        = "pedido"
	EstoqueAjuste        = "ajuste"
)

// MovimentoEstoque audits every change to a Lote quantity.
type MovimentoEstoque struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoteID             uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProdutoID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Tipo               string     `gorm:"type:varchar(20);not null"`
	Quantidade         int        `gorm:"not null"` // signed delta
	QuantidadeAnterior int        `gorm:"not null"`
	QuantidadeNova     int        `gorm:"not null"`
	Motivo             string
	ReferenciaID       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time
}

func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }
