package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PessoaFisica   = "PF"
	PessoaJuridica = "PJ"
)

// Cliente is a customer, either a person (PF) or a company (PJ).
// CPFCNPJ is stored digits-only.
type Cliente struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoUnico       string    `gorm:"type:varchar(60);uniqueIndex;not null"`
	TipoCliente       string    `gorm:"type:varchar(2);not null;default:'PF'"`
	NomeCompleto      *string
	RazaoSocial       *string
	NomeFantasia      *string
	CPFCNPJ           string `gorm:"column:cpf_cnpj;type:varchar(14);uniqueIndex;not null"`
	InscricaoEstadual *string
	Telefone          *string
	Email             *string
	Endereco          *string
	Cidade            *string
	Estado            *string `gorm:"type:varchar(2)"`
	Observacoes       *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Nome returns the display name for the customer kind.
func (c *Cliente) Nome() string {
	if c.TipoCliente == PessoaJuridica {
		if c.NomeFantasia != nil && *c.NomeFantasia != "" {
			return *c.NomeFantasia
		}
		if c.RazaoSocial != nil {
			return *c.RazaoSocial
		}
	}
	if c.NomeCompleto != nil {
		return *c.NomeCompleto
	}
	return ""
}
