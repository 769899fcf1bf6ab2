package dto

type ClienteRequest struct {
	TipoCliente       string  `json:"tipo_cliente"       validate:"required,oneof=PF PJ"`
	NomeCompleto      *string `json:"nome_completo"      validate:"omitempty,max=200"`
	RazaoSocial       *string `json:"razao_social"       validate:"omitempty,max=200"`
	NomeFantasia      *string `json:"nome_fantasia"      validate:"omitempty,max=200"`
	CPFCNPJ           string  `json:"cpf_cnpj"           validate:"required,max=18"`
	InscricaoEstadual *string `json:"inscricao_estadual" validate:"omitempty,max=30"`
	Telefone          *string `json:"telefone"           validate:"omitempty,max=20"`
	Email             *string `json:"email"              validate:"omitempty,email"`
	Endereco          *string `json:"endereco"`
	Cidade            *string `json:"cidade"             validate:"omitempty,max=100"`
	Estado            *string `json:"estado"             validate:"omitempty,len=2"`
	Observacoes       *string `json:"observacoes"`
}

type ClienteFilter struct {
	Q    string `form:"q"`
	Tipo string `form:"tipo"`
	Paginacao
}

type ClienteResponse struct {
	ID                string  `json:"id"`
	CodigoUnico       string  `json:"codigo_unico"`
	TipoCliente       string  `json:"tipo_cliente"`
	Nome              string  `json:"nome"`
	NomeCompleto      *string `json:"nome_completo"`
	RazaoSocial       *string `json:"razao_social"`
	NomeFantasia      *string `json:"nome_fantasia"`
	CPFCNPJ           string  `json:"cpf_cnpj"`
	InscricaoEstadual *string `json:"inscricao_estadual"`
	Telefone          *string `json:"telefone"`
	Email             *string `json:"email"`
	Endereco          *string `json:"endereco"`
	Cidade            *string `json:"cidade"`
	Estado            *string `json:"estado"`
	Observacoes       *string `json:"observacoes"`
}

// CNPJResponse is the normalized result of the public CNPJ lookup.
type CNPJResponse struct {
	CNPJ         string `json:"cnpj"`
	RazaoSocial  string `json:"razao_social"`
	NomeFantasia string `json:"nome_fantasia"`
	Endereco     string `json:"endereco"`
	Cidade       string `json:"cidade"`
	Estado       string `json:"estado"`
	CEP          string `json:"cep"`
	Telefone     string `json:"telefone"`
	Email        string `json:"email"`
	Situacao     string `json:"situacao"`
}
