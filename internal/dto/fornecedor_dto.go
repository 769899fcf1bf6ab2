package dto

type FornecedorRequest struct {
	NomeEmpresa string   `json:"nome_empresa" validate:"required,max=200"`
	NomeContato *string  `json:"nome_contato" validate:"omitempty,max=200"`
	CPFCNPJ     string   `json:"cpf_cnpj"     validate:"required,max=18"`
	Telefone    *string  `json:"telefone"     validate:"omitempty,max=20"`
	Email       *string  `json:"email"        validate:"omitempty,email"`
	Endereco    *string  `json:"endereco"`
	Cidade      *string  `json:"cidade"       validate:"omitempty,max=100"`
	Estado      *string  `json:"estado"       validate:"omitempty,len=2"`
	Observacoes *string  `json:"observacoes"`
	ProdutoIDs  []string `json:"produto_ids"  validate:"omitempty,dive,uuid"`
}

type FornecedorResponse struct {
	ID          string       `json:"id"`
	NomeEmpresa string       `json:"nome_empresa"`
	NomeContato *string      `json:"nome_contato"`
	CPFCNPJ     string       `json:"cpf_cnpj"`
	Telefone    *string      `json:"telefone"`
	Email       *string      `json:"email"`
	Endereco    *string      `json:"endereco"`
	Cidade      *string      `json:"cidade"`
	Estado      *string      `json:"estado"`
	Observacoes *string      `json:"observacoes"`
	Produtos    []OpcaoBusca `json:"produtos"`
}
