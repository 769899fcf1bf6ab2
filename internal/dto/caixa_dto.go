package dto

import "github.com/shopspring/decimal"

type MovimentoCaixaRequest struct {
	Tipo      string           `json:"tipo"      form:"tipo"      validate:"required,oneof=entrada retirada"`
	Valor     *decimal.Decimal `json:"valor"     form:"valor"`
	Descricao string           `json:"descricao" form:"descricao" validate:"max=255"`
}

type MovimentoCaixaResponse struct {
	ID        string          `json:"id"`
	Tipo      string          `json:"tipo"`
	Valor     decimal.Decimal `json:"valor"`
	Descricao string          `json:"descricao"`
	DataHora  string          `json:"data_hora"`
}

// HistoricoCaixaResponse: Saldo = TotalVendas − TotalRetiradas.
// TotalEntradas is informational and does not enter the balance.
type HistoricoCaixaResponse struct {
	Saldo          decimal.Decimal          `json:"saldo"`
	TotalVendas    decimal.Decimal          `json:"total_vendas"`
	TotalRetiradas decimal.Decimal          `json:"total_retiradas"`
	TotalEntradas  decimal.Decimal          `json:"total_entradas"`
	Movimentos     []MovimentoCaixaResponse `json:"movimentos"`
}
