package model

import (
	"time"

	"github.com/google/uuid"
)

// Etiqueta is a printed shipping/identification label. When LoteID is set the
// code, variety and product are copied from the batch on save.
type Etiqueta struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoteID           *uuid.UUID `gorm:"type:uuid;index"`
	ProdutoID        *uuid.UUID `gorm:"type:uuid;index"`
	CodigoLote       string     `gorm:"type:varchar(40);not null;default:''"`
	VariedadeProduto string     `gorm:"not null;default:''"`
	Quantidade       int        `gorm:"not null;default:1"`
	NomeCliente      *string
	CreatedAt        time.Time `gorm:"index"`
}
