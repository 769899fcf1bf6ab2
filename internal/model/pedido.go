package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PedidoPendente        = "PENDENTE"
	PedidoEmProcessamento = "EM_PROCESSAMENTO"
	PedidoEnviado         = "ENVIADO"
	PedidoEntregue        = "ENTREGUE"
	PedidoCancelado       = "CANCELADO"
)

// Pedido is a customer order. Total = Σ itens.subtotal + ValorFrete − DescontoTotal.
type Pedido struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero          int             `gorm:"uniqueIndex;not null"`
	ClienteID       *uuid.UUID      `gorm:"type:uuid;index"`
	Status          string          `gorm:"type:varchar(20);not null;default:'PENDENTE';index"`
	PrevisaoEntrega *time.Time      `gorm:"type:date"`
	ValorFrete      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DescontoTotal   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Observacoes     *string
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time

	Itens   []ItemPedido `gorm:"foreignKey:PedidoID"`
	Cliente *Cliente     `gorm:"foreignKey:ClienteID"`
}

type ItemPedido struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoteID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
	Lote    *Lote    `gorm:"foreignKey:LoteID"`
}

func (ItemPedido) TableName() string { return "itens_pedido" }

// PedidoTransicoes lists the allowed forward moves. CANCELADO is reachable
// from any state that is not terminal.
var PedidoTransicoes = map[string][]string{
	PedidoPendente:        {PedidoEmProcessamento, PedidoCancelado},
	PedidoEmProcessamento: {PedidoEnviado, PedidoCancelado},
	PedidoEnviado:         {PedidoEntregue, PedidoCancelado},
}

// PodeTransitar reports whether an order may move from one status to another.
func PodeTransitar(de, para string) bool {
	for _, s := range PedidoTransicoes[de] {
		if s == para {
			return true
		}
	}
	return false
}
