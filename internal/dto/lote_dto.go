package dto

import "github.com/shopspring/decimal"

type LoteRequest struct {
	ProdutoID     string  `json:"produto_id"     validate:"required,uuid"`
	DataSemeadura string  `json:"data_semeadura" validate:"required,datetime=2006-01-02"`
	Quantidade    int     `json:"quantidade"     validate:"min=0"`
	ProdutorID    *string `json:"produtor_id"    validate:"omitempty,uuid"`
	Observacoes   *string `json:"observacoes"`
}

type LoteFilter struct {
	Q         string `form:"q"`
	ProdutoID string `form:"produto_id"`
	Paginacao
}

type LoteResponse struct {
	ID            string          `json:"id"`
	Codigo        string          `json:"codigo"`
	ProdutoID     string          `json:"produto_id"`
	Produto       string          `json:"produto"`
	Tipo          string          `json:"tipo,omitempty"`
	DataSemeadura string          `json:"data_semeadura"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	ProdutorID    *string         `json:"produtor_id,omitempty"`
	Observacoes   *string         `json:"observacoes,omitempty"`
}
