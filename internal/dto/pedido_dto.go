package dto

import "github.com/shopspring/decimal"

type ItemPedidoRequest struct {
	LoteID        string           `json:"lote_id"        validate:"required,uuid"`
	Quantidade    int              `json:"quantidade"     validate:"required,gt=0"`
	PrecoUnitario *decimal.Decimal `json:"preco_unitario"`
}

type CriarPedidoRequest struct {
	ClienteID       *string             `json:"cliente_id"       validate:"omitempty,uuid"`
	Itens           []ItemPedidoRequest `json:"itens"            validate:"required,min=1,dive"`
	ValorFrete      decimal.Decimal     `json:"valor_frete"      validate:"min=0"`
	DescontoTotal   decimal.Decimal     `json:"desconto_total"   validate:"min=0"`
	PrevisaoEntrega *string             `json:"previsao_entrega" validate:"omitempty,datetime=2006-01-02"`
	Observacoes     *string             `json:"observacoes"`
}

// AtualizarPedidoRequest updates commercial fields; nil means unchanged.
type AtualizarPedidoRequest struct {
	ValorFrete      *decimal.Decimal `json:"valor_frete"`
	DescontoTotal   *decimal.Decimal `json:"desconto_total"`
	PrevisaoEntrega *string          `json:"previsao_entrega" validate:"omitempty,datetime=2006-01-02"`
	Observacoes     *string          `json:"observacoes"`
}

type StatusPedidoRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDENTE EM_PROCESSAMENTO ENVIADO ENTREGUE CANCELADO"`
}

type PedidoFilter struct {
	Status    string `form:"status"`
	ClienteID string `form:"cliente_id"`
	Paginacao
}

type ItemPedidoResponse struct {
	ID            string          `json:"id"`
	ProdutoID     string          `json:"produto_id"`
	Produto       string          `json:"produto"`
	LoteID        string          `json:"lote_id"`
	Lote          string          `json:"lote"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID              string               `json:"id"`
	Numero          int                  `json:"numero"`
	Status          string               `json:"status"`
	ClienteID       *string              `json:"cliente_id"`
	PrevisaoEntrega *string              `json:"previsao_entrega"`
	ValorFrete      decimal.Decimal      `json:"valor_frete"`
	DescontoTotal   decimal.Decimal      `json:"desconto_total"`
	Total           decimal.Decimal      `json:"total"`
	Observacoes     *string              `json:"observacoes"`
	CreatedAt       string               `json:"created_at"`
	Itens           []ItemPedidoResponse `json:"itens"`
}
