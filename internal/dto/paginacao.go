package dto

// Paginacao is embedded in list filters bound from the query string.
type Paginacao struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalizar clamps page to ≥1 and page size to [1, max], using def when unset.
func (p *Paginacao) Normalizar(def, max int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = def
	}
	if p.PageSize > max {
		p.PageSize = max
	}
}

func (p Paginacao) Offset() int { return (p.Page - 1) * p.PageSize }

// TotalPaginas is ceil(total/pageSize).
func TotalPaginas(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Lista is the envelope of every paginated response.
type Lista[T any] struct {
	Items        []T   `json:"items"`
	Total        int64 `json:"total"`
	TotalPaginas int   `json:"total_paginas"`
	PaginaAtual  int   `json:"pagina_atual"`
	PageSize     int   `json:"page_size"`
}

func NovaLista[T any](items []T, total int64, p Paginacao) *Lista[T] {
	if items == nil {
		items = []T{}
	}
	return &Lista[T]{
		Items:        items,
		Total:        total,
		TotalPaginas: TotalPaginas(total, p.PageSize),
		PaginaAtual:  p.Page,
		PageSize:     p.PageSize,
	}
}

// OpcaoBusca is the {id, text} pair used by autocomplete endpoints.
type OpcaoBusca struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

const (
	DataLayout     = "2006-01-02"
	DataHoraLayout = "2006-01-02T15:04:05Z07:00"
)
