package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Item quantity and price bounds are checked by the sale service and reported as ErrInvalidInput.

type ItemVendaRequest struct {
	LoteID        string           `json:"lote_id"        validate:"required,uuid"`
	Quantidade    int              `json:"quantidade"`
	PrecoUnitario *decimal.Decimal `json:"preco_unitario"`
}

type FinalizarVendaRequest struct {
	Itens          []ItemVendaRequest `json:"itens"           validate:"dive"`
	ClienteID      *string            `json:"cliente_id"      validate:"omitempty,uuid"`
	FormaPagamento *string            `json:"forma_pagamento" validate:"omitempty,max=30"`
	Observacoes    *string            `json:"observacoes"     validate:"omitempty,max=1000"`
}

type EnviarTermoRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VendaFilter is bound from the query string of GET /v1/vendas.
type VendaFilter struct {
	StartDate string `form:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `form:"end_date"`   // YYYY-MM-DD, inclusive
	Numero    int    `form:"numero"`
	Status    string `form:"status"`
	Paginacao
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	ID            string          `json:"id"`
	ProdutoID     string          `json:"produto_id"`
	Produto       string          `json:"produto"`
	LoteID        string          `json:"lote_id"`
	Lote          string          `json:"lote"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID             string              `json:"id"`
	Numero         int                 `json:"numero"`
	Status         string              `json:"status"`
	Total          decimal.Decimal     `json:"total"`
	ClienteID      *string             `json:"cliente_id"`
	Cliente        string              `json:"cliente,omitempty"`
	FormaPagamento *string             `json:"forma_pagamento"`
	Observacoes    *string             `json:"observacoes"`
	DataVenda      string              `json:"data_venda"`
	Itens          []ItemVendaResponse `json:"itens"`
}

// FinalizarVendaResponse mirrors the checkout page contract: success flag, message, new id.
type FinalizarVendaResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	VendaID string         `json:"venda_id"`
	Venda   *VendaResponse `json:"venda"`
}
