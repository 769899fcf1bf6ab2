package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store ──────────────────────────────────────────────────────────
// memoria holds rows by value, the way the database would: callers get copies
// and only repository methods mutate stored state.

type memoria struct {
	produtos  map[uuid.UUID]model.Produto
	lotes     map[uuid.UUID]model.Lote
	vendas    map[uuid.UUID]model.Venda
	pedidos   map[uuid.UUID]model.Pedido
	clientes  map[uuid.UUID]model.Cliente
	movs      []model.MovimentoEstoque
	caixa     []model.MovimentoCaixa
	numVenda  int
	numPedido int
	// travas records lock acquisition, e.g. "lote:<id>".
	travas []string
}

func novaMemoria() *memoria {
	return &memoria{
		produtos: map[uuid.UUID]model.Produto{},
		lotes:    map[uuid.UUID]model.Lote{},
		vendas:   map[uuid.UUID]model.Venda{},
		pedidos:  map[uuid.UUID]model.Pedido{},
		clientes: map[uuid.UUID]model.Cliente{},
	}
}

func (m *memoria) addProduto(cod, variedade, preco string) model.Produto {
	p := model.Produto{
		ID:        uuid.New(),
		Cod:       cod,
		Tipo:      "Hortalicas",
		Variedade: variedade,
		Preco:     decimal.RequireFromString(preco),
		Status:    model.StatusSemEstoque,
	}
	m.produtos[p.ID] = p
	return p
}

func (m *memoria) addLote(p model.Produto, semeadura string, qtd int) model.Lote {
	data, _ := time.Parse(dto.DataLayout, semeadura)
	l := model.Lote{
		ID:            uuid.New(),
		Codigo:        model.CodigoLote(p.Cod, data),
		ProdutoID:     p.ID,
		DataSemeadura: data,
		Quantidade:    qtd,
		PrecoUnitario: p.Preco,
	}
	m.lotes[l.ID] = l
	m.recalcular(p.ID)
	return l
}

func (m *memoria) recalcular(produtoID uuid.UUID) {
	p, ok := m.produtos[produtoID]
	if !ok {
		return
	}
	soma := 0
	for _, l := range m.lotes {
		if l.ProdutoID == produtoID {
			soma += l.Quantidade
		}
	}
	p.Estoque = decimal.NewFromInt(int64(soma))
	p.Status = model.StatusPara(p.Estoque)
	m.produtos[produtoID] = p
}

func (m *memoria) qtdLote(id uuid.UUID) int { return m.lotes[id].Quantidade }

func (m *memoria) estoqueProduto(id uuid.UUID) string { return m.produtos[id].Estoque.String() }

func naoEncontrado(entidade string) error {
	return fmt.Errorf("%w: %s", domain.ErrNotFound, entidade)
}

// ── Produtos ─────────────────────────────────────────────────────────────────

type stubProdutos struct{ m *memoria }

func (r stubProdutos) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.m.produtos[p.ID] = *p
	return nil
}

func (r stubProdutos) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.m.produtos[id]
	if !ok {
		return nil, naoEncontrado("produto")
	}
	return &p, nil
}

func (r stubProdutos) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Produto, error) {
	var out []model.Produto
	for _, id := range ids {
		if p, ok := r.m.produtos[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r stubProdutos) List(_ context.Context, _ dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var out []model.Produto
	for _, p := range r.m.produtos {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r stubProdutos) Update(_ context.Context, _ *gorm.DB, p *model.Produto) error {
	if _, ok := r.m.produtos[p.ID]; !ok {
		return naoEncontrado("produto")
	}
	r.m.produtos[p.ID] = *p
	return nil
}

func (r stubProdutos) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.m.produtos[id]; !ok {
		return naoEncontrado("produto")
	}
	delete(r.m.produtos, id)
	for lid, l := range r.m.lotes {
		if l.ProdutoID == id {
			delete(r.m.lotes, lid)
		}
	}
	return nil
}

func (r stubProdutos) CountReferencias(_ context.Context, id uuid.UUID) (int64, error) {
	var n int64
	for _, v := range r.m.vendas {
		for _, it := range v.Itens {
			if it.ProdutoID == id {
				n++
			}
		}
	}
	return n, nil
}

func (r stubProdutos) LockByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]model.Produto, error) {
	var out []model.Produto
	for _, id := range ids {
		r.m.travas = append(r.m.travas, "produto:"+id.String())
		if p, ok := r.m.produtos[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r stubProdutos) RecalcularEstoque(_ context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		r.m.recalcular(id)
	}
	return nil
}

func (r stubProdutos) DB() *gorm.DB { return nil }

// ── Lotes ────────────────────────────────────────────────────────────────────

type stubLotes struct{ m *memoria }

func (r stubLotes) Create(_ context.Context, _ *gorm.DB, l *model.Lote) error {
	for _, outro := range r.m.lotes {
		if outro.Codigo == l.Codigo {
			return fmt.Errorf("%w: lote já cadastrado", domain.ErrConflict)
		}
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	c := *l
	c.Produto = nil
	r.m.lotes[l.ID] = c
	return nil
}

func (r stubLotes) Update(_ context.Context, _ *gorm.DB, l *model.Lote) error {
	if _, ok := r.m.lotes[l.ID]; !ok {
		return naoEncontrado("lote")
	}
	c := *l
	c.Produto = nil
	r.m.lotes[l.ID] = c
	return nil
}

func (r stubLotes) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.m.lotes[id]; !ok {
		return naoEncontrado("lote")
	}
	delete(r.m.lotes, id)
	return nil
}

func (r stubLotes) comProduto(l model.Lote) *model.Lote {
	if p, ok := r.m.produtos[l.ProdutoID]; ok {
		l.Produto = &p
	}
	return &l
}

func (r stubLotes) FindByID(_ context.Context, id uuid.UUID) (*model.Lote, error) {
	l, ok := r.m.lotes[id]
	if !ok {
		return nil, naoEncontrado("lote")
	}
	return r.comProduto(l), nil
}

func (r stubLotes) FindByCodigo(_ context.Context, codigo string) (*model.Lote, error) {
	for _, l := range r.m.lotes {
		if l.Codigo == codigo {
			return r.comProduto(l), nil
		}
	}
	return nil, naoEncontrado("lote")
}

func (r stubLotes) List(_ context.Context, f dto.LoteFilter) ([]model.Lote, int64, error) {
	var out []model.Lote
	for _, l := range r.m.lotes {
		if f.ProdutoID != "" && l.ProdutoID.String() != f.ProdutoID {
			continue
		}
		out = append(out, *r.comProduto(l))
	}
	return out, int64(len(out)), nil
}

func (r stubLotes) Search(_ context.Context, q string, limit int) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.m.lotes {
		if strings.Contains(strings.ToLower(l.Codigo), strings.ToLower(q)) && len(out) < limit {
			out = append(out, *r.comProduto(l))
		}
	}
	return out, nil
}

func (r stubLotes) CountReferencias(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	r.m.travas = append(r.m.travas, "refs:"+id.String())
	var n int64
	for _, v := range r.m.vendas {
		for _, it := range v.Itens {
			if it.LoteID == id {
				n++
			}
		}
	}
	for _, p := range r.m.pedidos {
		for _, it := range p.Itens {
			if it.LoteID == id {
				n++
			}
		}
	}
	return n, nil
}

func (r stubLotes) LockByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]model.Lote, error) {
	var out []model.Lote
	for _, id := range ids {
		r.m.travas = append(r.m.travas, "lote:"+id.String())
		if l, ok := r.m.lotes[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r stubLotes) FindOldestWithStock(_ context.Context, _ *gorm.DB, produtoID uuid.UUID, min int) (*model.Lote, error) {
	var candidatos []model.Lote
	for _, l := range r.m.lotes {
		if l.ProdutoID == produtoID && l.Quantidade >= min {
			candidatos = append(candidatos, l)
		}
	}
	if len(candidatos) == 0 {
		return nil, naoEncontrado("lote com estoque")
	}
	sort.Slice(candidatos, func(i, j int) bool {
		if !candidatos[i].DataSemeadura.Equal(candidatos[j].DataSemeadura) {
			return candidatos[i].DataSemeadura.Before(candidatos[j].DataSemeadura)
		}
		return candidatos[i].ID.String() < candidatos[j].ID.String()
	})
	l := candidatos[0]
	return &l, nil
}

func (r stubLotes) AjustarQuantidade(_ context.Context, _ *gorm.DB, id uuid.UUID, delta int) error {
	l, ok := r.m.lotes[id]
	if !ok {
		return naoEncontrado("lote")
	}
	l.Quantidade += delta
	r.m.lotes[id] = l
	return nil
}

func (r stubLotes) DB() *gorm.DB { return nil }

// ── Movimentos de estoque ────────────────────────────────────────────────────

type stubMovimentos struct{ m *memoria }

func (r stubMovimentos) Create(_ context.Context, _ *gorm.DB, movs []model.MovimentoEstoque) error {
	for _, mv := range movs {
		mv.ID = uuid.New()
		mv.CreatedAt = time.Now()
		r.m.movs = append(r.m.movs, mv)
	}
	return nil
}

func (r stubMovimentos) ListByProduto(_ context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	var out []model.MovimentoEstoque
	for i := len(r.m.movs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.m.movs[i].ProdutoID == produtoID {
			out = append(out, r.m.movs[i])
		}
	}
	return out, nil
}

// ── Vendas ───────────────────────────────────────────────────────────────────

type stubVendas struct{ m *memoria }

func copiaVenda(v model.Venda) model.Venda {
	v.Itens = append([]model.ItemVenda(nil), v.Itens...)
	return v
}

func (r stubVendas) Create(_ context.Context, _ *gorm.DB, v *model.Venda) error {
	v.ID = uuid.New()
	for i := range v.Itens {
		v.Itens[i].ID = uuid.New()
		v.Itens[i].VendaID = v.ID
	}
	r.m.vendas[v.ID] = copiaVenda(*v)
	return nil
}

func (r stubVendas) FindByID(_ context.Context, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.m.vendas[id]
	if !ok {
		return nil, naoEncontrado("venda")
	}
	c := copiaVenda(v)
	for i := range c.Itens {
		if l, ok := r.m.lotes[c.Itens[i].LoteID]; ok {
			c.Itens[i].Lote = &l
		}
		if p, ok := r.m.produtos[c.Itens[i].ProdutoID]; ok {
			c.Itens[i].Produto = &p
		}
	}
	return &c, nil
}

func (r stubVendas) LockByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.Venda, error) {
	v, ok := r.m.vendas[id]
	if !ok {
		return nil, naoEncontrado("venda")
	}
	c := copiaVenda(v)
	return &c, nil
}

func (r stubVendas) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status string) error {
	v, ok := r.m.vendas[id]
	if !ok {
		return naoEncontrado("venda")
	}
	v.Status = status
	r.m.vendas[id] = v
	return nil
}

func (r stubVendas) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.m.vendas[id]; !ok {
		return naoEncontrado("venda")
	}
	delete(r.m.vendas, id)
	return nil
}

func (r stubVendas) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.m.numVenda++
	return r.m.numVenda, nil
}

func (r stubVendas) RecalcularTotal(_ context.Context, _ *gorm.DB, id uuid.UUID) (decimal.Decimal, error) {
	v, ok := r.m.vendas[id]
	if !ok {
		return decimal.Zero, naoEncontrado("venda")
	}
	total := decimal.Zero
	for _, it := range v.Itens {
		total = total.Add(it.Subtotal)
	}
	v.Total = total
	r.m.vendas[id] = v
	return total, nil
}

func (r stubVendas) List(_ context.Context, q repository.VendaQuery) ([]model.Venda, int64, error) {
	var out []model.Venda
	for _, v := range r.m.vendas {
		if q.Status != "" && v.Status != q.Status {
			continue
		}
		if q.Numero != 0 && v.Numero != q.Numero {
			continue
		}
		if q.Inicio != nil && v.DataVenda.Before(*q.Inicio) {
			continue
		}
		if q.Fim != nil && !v.DataVenda.Before(*q.Fim) {
			continue
		}
		out = append(out, copiaVenda(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero > out[j].Numero })
	total := int64(len(out))
	if q.Limit > 0 {
		fim := q.Offset + q.Limit
		if q.Offset > len(out) {
			q.Offset = len(out)
		}
		if fim > len(out) {
			fim = len(out)
		}
		out = out[q.Offset:fim]
	}
	return out, total, nil
}

func (r stubVendas) SomaFinalizadas(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, v := range r.m.vendas {
		if v.Status == model.VendaFinalizada {
			total = total.Add(v.Total)
		}
	}
	return total, nil
}

func (r stubVendas) DB() *gorm.DB { return nil }

// ── Pedidos ──────────────────────────────────────────────────────────────────

type stubPedidos struct{ m *memoria }

func copiaPedido(p model.Pedido) model.Pedido {
	p.Itens = append([]model.ItemPedido(nil), p.Itens...)
	return p
}

func (r stubPedidos) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	for i := range p.Itens {
		p.Itens[i].ID = uuid.New()
		p.Itens[i].PedidoID = p.ID
	}
	r.m.pedidos[p.ID] = copiaPedido(*p)
	return nil
}

func (r stubPedidos) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.m.pedidos[id]
	if !ok {
		return nil, naoEncontrado("pedido")
	}
	c := copiaPedido(p)
	return &c, nil
}

func (r stubPedidos) LockByID(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	return r.FindByID(ctx, id)
}

func (r stubPedidos) Update(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	atual, ok := r.m.pedidos[p.ID]
	if !ok {
		return naoEncontrado("pedido")
	}
	atual.Status = p.Status
	atual.PrevisaoEntrega = p.PrevisaoEntrega
	atual.ValorFrete = p.ValorFrete
	atual.DescontoTotal = p.DescontoTotal
	atual.Observacoes = p.Observacoes
	r.m.pedidos[p.ID] = atual
	return nil
}

func (r stubPedidos) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.m.pedidos[id]; !ok {
		return naoEncontrado("pedido")
	}
	delete(r.m.pedidos, id)
	return nil
}

func (r stubPedidos) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.m.numPedido++
	return r.m.numPedido, nil
}

func (r stubPedidos) RecalcularTotal(_ context.Context, _ *gorm.DB, id uuid.UUID) (decimal.Decimal, error) {
	p, ok := r.m.pedidos[id]
	if !ok {
		return decimal.Zero, naoEncontrado("pedido")
	}
	total := decimal.Zero
	for _, it := range p.Itens {
		total = total.Add(it.Subtotal)
	}
	p.Total = total.Add(p.ValorFrete).Sub(p.DescontoTotal)
	r.m.pedidos[id] = p
	return p.Total, nil
}

func (r stubPedidos) List(_ context.Context, f dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.m.pedidos {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, copiaPedido(p))
	}
	return out, int64(len(out)), nil
}

func (r stubPedidos) DB() *gorm.DB { return nil }

// ── Caixa ────────────────────────────────────────────────────────────────────

type stubCaixa struct{ m *memoria }

func (r stubCaixa) CreateMovimento(_ context.Context, mv *model.MovimentoCaixa) error {
	mv.ID = uuid.New()
	r.m.caixa = append(r.m.caixa, *mv)
	return nil
}

func (r stubCaixa) ListMovimentos(_ context.Context) ([]model.MovimentoCaixa, error) {
	out := make([]model.MovimentoCaixa, 0, len(r.m.caixa))
	for i := len(r.m.caixa) - 1; i >= 0; i-- {
		out = append(out, r.m.caixa[i])
	}
	return out, nil
}

func (r stubCaixa) SomaPorTipo(_ context.Context, tipo string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, mv := range r.m.caixa {
		if mv.Tipo == tipo {
			total = total.Add(mv.Valor)
		}
	}
	return total, nil
}

// ── Clientes ─────────────────────────────────────────────────────────────────

type stubClientes struct{ m *memoria }

func (r stubClientes) Create(_ context.Context, c *model.Cliente) error {
	c.ID = uuid.New()
	r.m.clientes[c.ID] = *c
	return nil
}

func (r stubClientes) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.m.clientes[id]
	if !ok {
		return nil, naoEncontrado("cliente")
	}
	return &c, nil
}

func (r stubClientes) ExistsCodigoUnico(_ context.Context, codigo string, exceto *uuid.UUID) (bool, error) {
	for _, c := range r.m.clientes {
		if c.CodigoUnico == codigo && (exceto == nil || c.ID != *exceto) {
			return true, nil
		}
	}
	return false, nil
}

func (r stubClientes) ExistsDocumento(_ context.Context, doc string, exceto *uuid.UUID) (bool, error) {
	for _, c := range r.m.clientes {
		if c.CPFCNPJ == doc && (exceto == nil || c.ID != *exceto) {
			return true, nil
		}
	}
	return false, nil
}

func (r stubClientes) List(_ context.Context, f dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.m.clientes {
		if f.Q != "" && !strings.Contains(c.CPFCNPJ, f.Q) && !strings.Contains(strings.ToLower(c.Nome()), strings.ToLower(f.Q)) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r stubClientes) Update(_ context.Context, c *model.Cliente) error {
	if _, ok := r.m.clientes[c.ID]; !ok {
		return naoEncontrado("cliente")
	}
	r.m.clientes[c.ID] = *c
	return nil
}

func (r stubClientes) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.clientes[id]; !ok {
		return naoEncontrado("cliente")
	}
	delete(r.m.clientes, id)
	return nil
}

var (
	_ repository.ProdutoRepository          = stubProdutos{}
	_ repository.LoteRepository             = stubLotes{}
	_ repository.MovimentoEstoqueRepository = stubMovimentos{}
	_ repository.VendaRepository            = stubVendas{}
	_ repository.PedidoRepository           = stubPedidos{}
	_ repository.CaixaRepository            = stubCaixa{}
	_ repository.ClienteRepository          = stubClientes{}
)
