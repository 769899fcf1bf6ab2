package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusComEstoque = "Com Estoque"
	StatusSemEstoque = "Sem Estoque"
)

// Unidades and tipos accepted for Produto; validated on the DTO.
var (
	Unidades = []string{"BDJ", "VASO", "CUIA", "MUDAS", "KG", "G", "PC", "UN"}
	Tipos    = []string{
		"Tempero", "Hibridos", "Cacto", "Flores", "Frutas", "Plantas Ornamentais",
		"Arvores Frutiferas", "Arvores Nativas", "Hortalicas", "Suculentas",
		"Vasos", "Substratos", "Adubos", "Ferramentas", "Outros",
	}
)

// Produto is a catalog item. Estoque is a cache of SUM(lotes.quantidade);
// it is only written by ProdutoRepository.RecalcularEstoque.
type Produto struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cod               string          `gorm:"type:varchar(20);uniqueIndex;not null"`
	Tipo              string          `gorm:"type:varchar(30);index;not null"`
	Variedade         string          `gorm:"index;not null"`
	Especie           string          `gorm:"not null;default:''"`
	CodEspecie        *string         `gorm:"type:varchar(20)"`
	CultivarInfo      *string
	DescricaoCatalogo *string
	Unidade           string          `gorm:"type:varchar(10);not null;default:'UN'"`
	QtdUnid           string          `gorm:"type:varchar(10);not null;default:'1UN'"`
	Estoque           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Preco             decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Status            string          `gorm:"type:varchar(20);not null;default:'Sem Estoque'"`
	NCMID             *uuid.UUID      `gorm:"type:uuid;index"`
	CFOPID            *uuid.UUID      `gorm:"type:uuid;index"`
	ImagemURL         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	NCM  *NCM  `gorm:"foreignKey:NCMID"`
	CFOP *CFOP `gorm:"foreignKey:CFOPID"`
}

// StatusPara derives the stock status label from a quantity.
func StatusPara(estoque decimal.Decimal) string {
	if estoque.IsPositive() {
		return StatusComEstoque
	}
	return StatusSemEstoque
}

// ValorTotal is the stock value at the current price.
func (p *Produto) ValorTotal() decimal.Decimal {
	return p.Estoque.Mul(p.Preco).Round(2)
}

// NCM is the Mercosur nomenclature reference table (8-digit code).
type NCM struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Descricao string    `gorm:"type:text;not null"`
}

func (NCM) TableName() string { return "ncms" }

// CFOP is the fiscal operation code reference table (4-digit code).
type CFOP struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"type:varchar(5);uniqueIndex;not null"`
	Descricao string    `gorm:"type:text;not null"`
}

func (CFOP) TableName() string { return "cfops" }
