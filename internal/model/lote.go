package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lote is a sowing batch of one Produto. Codigo is generated once from the
// product code and the sowing date and never changes afterwards. ProdutorID
// names the rural producer that grew it, when not grown in-house.
type Lote struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo        string          `gorm:"type:varchar(40);uniqueIndex;not null"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	DataSemeadura time.Time       `gorm:"type:date;not null;index"`
	Quantidade    int             `gorm:"not null;default:0"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ProdutorID    *uuid.UUID      `gorm:"type:uuid;index"`
	Observacoes   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Produto  *Produto       `gorm:"foreignKey:ProdutoID"`
	Produtor *ProdutorRural `gorm:"foreignKey:ProdutorID;constraint:OnDelete:SET NULL"`
}

// CodigoLote builds the batch code: product code followed by DDMMYY.
func CodigoLote(codProduto string, dataSemeadura time.Time) string {
	return codProduto + dataSemeadura.Format("020106")
}
