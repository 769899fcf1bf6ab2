package dto

import "github.com/shopspring/decimal"

type VeiculoRequest struct {
	Nome            string  `json:"nome"             validate:"required,max=100"`
	Placa           *string `json:"placa"            validate:"omitempty,max=10"`
	Modelo          *string `json:"modelo"           validate:"omitempty,max=100"`
	Ano             *int    `json:"ano"              validate:"omitempty,gte=1900,lte=2100"`
	TipoCombustivel string  `json:"tipo_combustivel" validate:"omitempty,oneof=GASOLINA ETANOL DIESEL FLEX ELETRICO OUTRO"`
	Observacoes     *string `json:"observacoes"`
}

type VeiculoResponse struct {
	ID              string  `json:"id"`
	Nome            string  `json:"nome"`
	Placa           *string `json:"placa"`
	Modelo          *string `json:"modelo"`
	Ano             *int    `json:"ano"`
	TipoCombustivel string  `json:"tipo_combustivel"`
	Observacoes     *string `json:"observacoes"`
}

type MaquinaRequest struct {
	Nome          string  `json:"nome"          validate:"required,max=100"`
	Tipo          string  `json:"tipo"          validate:"omitempty,oneof=TRATOR ROCADEIRA PULVERIZADOR GERADOR CULTIVADOR OUTRO"`
	Identificacao *string `json:"identificacao" validate:"omitempty,max=50"`
	Ano           *int    `json:"ano"           validate:"omitempty,gte=1900,lte=2100"`
	Observacoes   *string `json:"observacoes"`
}

type MaquinaResponse struct {
	ID            string  `json:"id"`
	Nome          string  `json:"nome"`
	Tipo          string  `json:"tipo"`
	Identificacao *string `json:"identificacao"`
	Ano           *int    `json:"ano"`
	Observacoes   *string `json:"observacoes"`
}

type ManutencaoRequest struct {
	VeiculoID      *string         `json:"veiculo_id"      validate:"omitempty,uuid"`
	MaquinaID      *string         `json:"maquina_id"      validate:"omitempty,uuid"`
	DataManutencao string          `json:"data_manutencao" validate:"required,datetime=2006-01-02"`
	Tipo           string          `json:"tipo"            validate:"required,oneof=PREVENTIVA CORRETIVA LUBRIFICACAO OUTRO"`
	Descricao      string          `json:"descricao"       validate:"required"`
	Custo          decimal.Decimal `json:"custo"`
	RealizadaPor   *string         `json:"realizada_por"   validate:"omitempty,max=100"`
}

type ManutencaoFilter struct {
	VeiculoID string `form:"veiculo_id"`
	MaquinaID string `form:"maquina_id"`
	Tipo      string `form:"tipo"`
	Paginacao
}

type ManutencaoResponse struct {
	ID             string          `json:"id"`
	VeiculoID      *string         `json:"veiculo_id"`
	Veiculo        string          `json:"veiculo,omitempty"`
	MaquinaID      *string         `json:"maquina_id"`
	Maquina        string          `json:"maquina,omitempty"`
	DataManutencao string          `json:"data_manutencao"`
	Tipo           string          `json:"tipo"`
	Descricao      string          `json:"descricao"`
	Custo          decimal.Decimal `json:"custo"`
	RealizadaPor   *string         `json:"realizada_por"`
}
