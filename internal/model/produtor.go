package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	FunruralFolha           = "folha_pagamento"
	FunruralComercializacao = "comercializacao_producao"
	FunruralNaoSeAplica     = "nao_se_aplica"
)

// ProdutorRural is a registered seed/seedling producer. Renasem, when set,
// replaces the company RENASEM on labels of the producer's batches.
type ProdutorRural struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NomeFantasia       *string
	RazaoSocial        *string
	TipoPessoa         string  `gorm:"type:varchar(2);not null;default:'PF'"`
	CPFCNPJ            string  `gorm:"column:cpf_cnpj;type:varchar(14);uniqueIndex;not null"`
	RG                 *string `gorm:"column:rg;type:varchar(20)"`
	InscricaoEstadual  *string `gorm:"type:varchar(20)"`
	EmailContato       *string
	TelefonePrincipal  *string `gorm:"type:varchar(11)"`
	TelefoneSecundario *string `gorm:"type:varchar(11)"`
	CEP                *string `gorm:"column:cep;type:varchar(8)"`
	Endereco           *string
	Numero             *string `gorm:"type:varchar(10)"`
	Complemento        *string
	Bairro             *string
	Cidade             *string
	Estado             *string `gorm:"type:varchar(2)"`
	Renasem            *string `gorm:"type:varchar(50)"`
	FunruralTipo       string  `gorm:"type:varchar(30);not null;default:'nao_se_aplica'"`
	Observacoes        *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Responsaveis []ResponsavelTecnico `gorm:"foreignKey:ProdutorID;constraint:OnDelete:CASCADE"`
}

func (ProdutorRural) TableName() string { return "produtores_rurais" }

// Nome prefers the trade name, then the legal name, then the document.
func (p *ProdutorRural) Nome() string {
	switch {
	case p.NomeFantasia != nil && *p.NomeFantasia != "":
		return *p.NomeFantasia
	case p.RazaoSocial != nil && *p.RazaoSocial != "":
		return *p.RazaoSocial
	}
	return "Produtor " + p.CPFCNPJ
}

// ResponsavelTecnico is the agronomist answering for a producer. CPF is
// unique across all producers.
type ResponsavelTecnico struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutorID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Nome                 string    `gorm:"not null"`
	CPF                  string    `gorm:"column:cpf;type:varchar(11);uniqueIndex;not null"`
	RegistroProfissional *string
	Telefone             *string `gorm:"type:varchar(11)"`
	Email                *string
	Observacoes          *string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Produtor *ProdutorRural `gorm:"foreignKey:ProdutorID"`
}

func (ResponsavelTecnico) TableName() string { return "responsaveis_tecnicos" }
