package dto

type EtiquetaRequest struct {
	LoteID           *string `json:"lote_id"           validate:"omitempty,uuid"`
	CodigoLote       string  `json:"codigo_lote"       validate:"max=40"`
	VariedadeProduto string  `json:"variedade_produto" validate:"max=200"`
	Quantidade       int     `json:"quantidade"        validate:"gte=0,lte=500"`
	NomeCliente      *string `json:"nome_cliente"      validate:"omitempty,max=200"`
}

type EtiquetaResponse struct {
	ID               string  `json:"id"`
	LoteID           *string `json:"lote_id"`
	ProdutoID        *string `json:"produto_id"`
	CodigoLote       string  `json:"codigo_lote"`
	VariedadeProduto string  `json:"variedade_produto"`
	Quantidade       int     `json:"quantidade"`
	NomeCliente      *string `json:"nome_cliente"`
	CreatedAt        string  `json:"created_at"`
}
