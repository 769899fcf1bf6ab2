package dto

import "github.com/shopspring/decimal"

type ItemCarrinhoRequest struct {
	ProdutoID  string `json:"produto_id" validate:"required,uuid"`
	Quantidade int    `json:"quantidade" validate:"required,gt=0"`
}

type QuantidadeCarrinhoRequest struct {
	Quantidade int `json:"quantidade" validate:"min=0"` // 0 removes the item
}

type CheckoutRequest struct {
	ClienteID   *string `json:"cliente_id"  validate:"omitempty,uuid"`
	Observacoes *string `json:"observacoes"`
}

type ItemCarrinhoResponse struct {
	ProdutoID  string          `json:"produto_id"`
	Cod        string          `json:"cod"`
	Variedade  string          `json:"variedade"`
	Quantidade int             `json:"quantidade"`
	Preco      decimal.Decimal `json:"preco"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type CarrinhoResponse struct {
	Itens      []ItemCarrinhoResponse `json:"itens"`
	TotalItens int                    `json:"total_itens"`
	Total      decimal.Decimal        `json:"total"`
}
