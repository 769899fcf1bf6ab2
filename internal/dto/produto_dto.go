package dto

import "github.com/shopspring/decimal"

// ProdutoRequest is used for create and full update. Stock is not accepted:
// it is derived from the product's batches.
type ProdutoRequest struct {
	Cod               string          `json:"cod"                validate:"required,max=20"`
	Tipo              string          `json:"tipo"               validate:"required,oneof='Tempero' 'Hibridos' 'Cacto' 'Flores' 'Frutas' 'Plantas Ornamentais' 'Arvores Frutiferas' 'Arvores Nativas' 'Hortalicas' 'Suculentas' 'Vasos' 'Substratos' 'Adubos' 'Ferramentas' 'Outros'"`
	Variedade         string          `json:"variedade"          validate:"required,max=120"`
	Especie           string          `json:"especie"            validate:"max=120"`
	CodEspecie        *string         `json:"cod_especie"        validate:"omitempty,max=20"`
	CultivarInfo      *string         `json:"cultivar_info"`
	DescricaoCatalogo *string         `json:"descricao_catalogo"`
	Unidade           string          `json:"unidade"            validate:"required,oneof=BDJ VASO CUIA MUDAS KG G PC UN"`
	QtdUnid           string          `json:"qtd_unid"           validate:"omitempty,oneof=1UN 15UN 128UN 30UN"`
	Preco             decimal.Decimal `json:"preco"              validate:"min=0"`
	NCMID             *string         `json:"ncm_id"             validate:"omitempty,uuid"`
	CFOPID            *string         `json:"cfop_id"            validate:"omitempty,uuid"`
	ImagemURL         *string         `json:"imagem_url"         validate:"omitempty,url"`
}

type ProdutoFilter struct {
	Q      string `form:"q"`
	Tipo   string `form:"tipo"`
	Status string `form:"status"`
	Paginacao
}

type ProdutoResponse struct {
	ID                string          `json:"id"`
	Cod               string          `json:"cod"`
	Tipo              string          `json:"tipo"`
	Variedade         string          `json:"variedade"`
	Especie           string          `json:"especie"`
	CodEspecie        *string         `json:"cod_especie"`
	CultivarInfo      *string         `json:"cultivar_info"`
	DescricaoCatalogo *string         `json:"descricao_catalogo"`
	Unidade           string          `json:"unidade"`
	QtdUnid           string          `json:"qtd_unid"`
	Estoque           decimal.Decimal `json:"estoque"`
	Preco             decimal.Decimal `json:"preco"`
	Status            string          `json:"status"`
	ValorTotal        decimal.Decimal `json:"valor_total"`
	NCM               *string         `json:"ncm"`
	CFOP              *string         `json:"cfop"`
	ImagemURL         *string         `json:"imagem_url"`
}

type MovimentoEstoqueResponse struct {
	ID                 string  `json:"id"`
	LoteID             string  `json:"lote_id"`
	Tipo               string  `json:"tipo"`
	Quantidade         int     `json:"quantidade"`
	QuantidadeAnterior int     `json:"quantidade_anterior"`
	QuantidadeNova     int     `json:"quantidade_nova"`
	Motivo             string  `json:"motivo"`
	ReferenciaID       *string `json:"referencia_id"`
	CreatedAt          string  `json:"created_at"`
}
