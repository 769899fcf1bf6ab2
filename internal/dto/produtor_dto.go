package dto

type ProdutorRequest struct {
	NomeFantasia       *string `json:"nome_fantasia"       validate:"omitempty,max=255"`
	RazaoSocial        *string `json:"razao_social"        validate:"omitempty,max=255"`
	TipoPessoa         string  `json:"tipo_pessoa"         validate:"required,oneof=PF PJ"`
	CPFCNPJ            string  `json:"cpf_cnpj"            validate:"required,max=18"`
	RG                 *string `json:"rg"                  validate:"omitempty,max=20"`
	InscricaoEstadual  *string `json:"inscricao_estadual"  validate:"omitempty,max=20"`
	EmailContato       *string `json:"email_contato"       validate:"omitempty,email"`
	TelefonePrincipal  *string `json:"telefone_principal"  validate:"omitempty,max=15"`
	TelefoneSecundario *string `json:"telefone_secundario" validate:"omitempty,max=15"`
	CEP                *string `json:"cep"                 validate:"omitempty,max=9"`
	Endereco           *string `json:"endereco"            validate:"omitempty,max=255"`
	Numero             *string `json:"numero"              validate:"omitempty,max=10"`
	Complemento        *string `json:"complemento"         validate:"omitempty,max=100"`
	Bairro             *string `json:"bairro"              validate:"omitempty,max=100"`
	Cidade             *string `json:"cidade"              validate:"omitempty,max=100"`
	Estado             *string `json:"estado"              validate:"omitempty,len=2"`
	Renasem            *string `json:"renasem"             validate:"omitempty,max=50"`
	FunruralTipo       string  `json:"funrural_recolhimento_tipo" validate:"omitempty,oneof=folha_pagamento comercializacao_producao nao_se_aplica"`
	Observacoes        *string `json:"observacoes"`
}

type ProdutorResponse struct {
	ID                 string                `json:"id"`
	Nome               string                `json:"nome"`
	NomeFantasia       *string               `json:"nome_fantasia"`
	RazaoSocial        *string               `json:"razao_social"`
	TipoPessoa         string                `json:"tipo_pessoa"`
	CPFCNPJ            string                `json:"cpf_cnpj"`
	RG                 *string               `json:"rg"`
	InscricaoEstadual  *string               `json:"inscricao_estadual"`
	EmailContato       *string               `json:"email_contato"`
	TelefonePrincipal  *string               `json:"telefone_principal"`
	TelefoneSecundario *string               `json:"telefone_secundario"`
	CEP                *string               `json:"cep"`
	Endereco           *string               `json:"endereco"`
	Numero             *string               `json:"numero"`
	Complemento        *string               `json:"complemento"`
	Bairro             *string               `json:"bairro"`
	Cidade             *string               `json:"cidade"`
	Estado             *string               `json:"estado"`
	Renasem            *string               `json:"renasem"`
	FunruralTipo       string                `json:"funrural_recolhimento_tipo"`
	Observacoes        *string               `json:"observacoes"`
	DataCadastro       string                `json:"data_cadastro"`
	Responsaveis       []ResponsavelResponse `json:"responsaveis_tecnicos"`
}

type ResponsavelRequest struct {
	ProdutorID           string  `json:"produtor_rural"        validate:"required,uuid"`
	Nome                 string  `json:"nome"                  validate:"required,max=255"`
	CPF                  string  `json:"cpf"                   validate:"required,max=14"`
	RegistroProfissional *string `json:"registro_profissional" validate:"omitempty,max=100"`
	Telefone             *string `json:"telefone"              validate:"omitempty,max=15"`
	Email                *string `json:"email"                 validate:"omitempty,email"`
	Observacoes          *string `json:"observacoes"`
}

type ResponsavelFilter struct {
	ProdutorID string `form:"produtor_id"`
	Paginacao
}

type ResponsavelResponse struct {
	ID                   string  `json:"id"`
	ProdutorID           string  `json:"produtor_rural"`
	Nome                 string  `json:"nome"`
	CPF                  string  `json:"cpf"`
	RegistroProfissional *string `json:"registro_profissional"`
	Telefone             *string `json:"telefone"`
	Email                *string `json:"email"`
	Observacoes          *string `json:"observacoes"`
}
