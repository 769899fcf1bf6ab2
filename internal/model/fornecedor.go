package model

import (
	"time"

	"github.com/google/uuid"
)

// Fornecedor is a supplier; Produtos is the many-to-many list of items it supplies.
type Fornecedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NomeEmpresa string    `gorm:"not null"`
	NomeContato *string
	CPFCNPJ     string `gorm:"column:cpf_cnpj;type:varchar(14);uniqueIndex;not null"`
	Telefone    *string
	Email       *string
	Endereco    *string
	Cidade      *string
	Estado      *string `gorm:"type:varchar(2)"`
	Observacoes *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Produtos []Produto `gorm:"many2many:fornecedor_produtos;"`
}

func (Fornecedor) TableName() string { return "fornecedores" }
