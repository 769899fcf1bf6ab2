package service

import (
	"bytes"
	"context"
	"testing"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/infra"
	"viveiro/internal/model"
	"viveiro/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preco(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func novoVendaService(m *memoria, dispatcher *worker.Dispatcher) VendaService {
	return NewVendaService(stubVendas{m}, stubLotes{m}, stubProdutos{m}, stubMovimentos{m}, stubClientes{m},
		nil, dispatcher, infra.Empresa{Nome: "Viveiro Teste"})
}

// cenarioVenda seeds two products with one batch each: A (10 un) and B (5 un).
func cenarioVenda(m *memoria) (model.Lote, model.Lote) {
	alface := m.addProduto("ALF01", "Alface Crespa", "10.00")
	tomate := m.addProduto("TOM01", "Tomate Cereja", "5.00")
	return m.addLote(alface, "2026-03-01", 10), m.addLote(tomate, "2026-03-02", 5)
}

func TestVenda_FinalizarCalculaTotalEBaixaEstoque(t *testing.T) {
	m := novaMemoria()
	a, b := cenarioVenda(m)
	svc := novoVendaService(m, nil)

	resp, err := svc.Finalizar(context.Background(), nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{LoteID: a.ID.String(), Quantidade: 3, PrecoUnitario: preco("10.00")},
			{LoteID: b.ID.String(), Quantidade: 2, PrecoUnitario: preco("5.00")},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "Venda #1 finalizada com sucesso", resp.Message)
	assert.True(t, decimal.RequireFromString("40.00").Equal(resp.Venda.Total), "total = %s", resp.Venda.Total)
	require.Len(t, resp.Venda.Itens, 2)
	assert.Equal(t, a.Codigo, resp.Venda.Itens[0].Lote)

	assert.Equal(t, 7, m.qtdLote(a.ID))
	assert.Equal(t, 3, m.qtdLote(b.ID))
	assert.Equal(t, "7", m.estoqueProduto(a.ProdutoID))
	assert.Equal(t, "3", m.estoqueProduto(b.ProdutoID))

	require.Len(t, m.vendas, 1)
	venda := m.vendas[uuid.MustParse(resp.VendaID)]
	assert.Equal(t, model.VendaFinalizada, venda.Status)
	assert.True(t, decimal.RequireFromString("40").Equal(venda.Total))

	require.Len(t, m.movs, 2)
	for _, mv := range m.movs {
		assert.Equal(t, model.EstoqueVenda, mv.Tipo)
		assert.Equal(t, "Venda #1", mv.Motivo)
		assert.Equal(t, mv.QuantidadeAnterior+mv.Quantidade, mv.QuantidadeNova)
		require.NotNil(t, mv.ReferenciaID)
		assert.Equal(t, venda.ID, *mv.ReferenciaID)
	}
}

func TestVenda_EstoqueInsuficienteNaoAlteraNada(t *testing.T) {
	m := novaMemoria()
	a, b := cenarioVenda(m)
	svc := novoVendaService(m, nil)

	_, err := svc.Finalizar(context.Background(), nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{LoteID: a.ID.String(), Quantidade: 1, PrecoUnitario: preco("10.00")},
			{LoteID: b.ID.String(), Quantidade: 6, PrecoUnitario: preco("5.00")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, m.vendas)
	assert.Empty(t, m.movs)
	assert.Equal(t, 10, m.qtdLote(a.ID))
	assert.Equal(t, 5, m.qtdLote(b.ID))
	assert.Equal(t, 0, m.numVenda)
}

func TestVenda_QuantidadesDoMesmoLoteSaoSomadas(t *testing.T) {
	m := novaMemoria()
	_, b := cenarioVenda(m)
	svc := novoVendaService(m, nil)

	_, err := svc.Finalizar(context.Background(), nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{LoteID: b.ID.String(), Quantidade: 3, PrecoUnitario: preco("5.00")},
			{LoteID: b.ID.String(), Quantidade: 3, PrecoUnitario: preco("5.00")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, m.qtdLote(b.ID))
}

func TestVenda_ValidacaoDosItens(t *testing.T) {
	m := novaMemoria()
	a, _ := cenarioVenda(m)
	svc := novoVendaService(m, nil)

	cases := []struct {
		name  string
		itens []dto.ItemVendaRequest
		want  error
	}{
		{"lista vazia", nil, domain.ErrInvalidInput},
		{"lote_id inválido", []dto.ItemVendaRequest{{LoteID: "x", Quantidade: 1, PrecoUnitario: preco("1")}}, domain.ErrInvalidInput},
		{"quantidade zero", []dto.ItemVendaRequest{{LoteID: a.ID.String(), Quantidade: 0, PrecoUnitario: preco("1")}}, domain.ErrInvalidInput},
		{"sem preço", []dto.ItemVendaRequest{{LoteID: a.ID.String(), Quantidade: 1}}, domain.ErrInvalidInput},
		{"preço negativo", []dto.ItemVendaRequest{{LoteID: a.ID.String(), Quantidade: 1, PrecoUnitario: preco("-1")}}, domain.ErrInvalidInput},
		{"lote inexistente", []dto.ItemVendaRequest{{LoteID: uuid.NewString(), Quantidade: 1, PrecoUnitario: preco("1")}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Finalizar(context.Background(), nil, dto.FinalizarVendaRequest{Itens: tc.itens})
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, m.vendas)
	assert.Equal(t, 10, m.qtdLote(a.ID))
}

func TestVenda_TravaLotesEmOrdemDeID(t *testing.T) {
	m := novaMemoria()
	a, b := cenarioVenda(m)
	svc := novoVendaService(m, nil)

	_, err := svc.Finalizar(context.Background(), nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{LoteID: a.ID.String(), Quantidade: 1, PrecoUnitario: preco("10.00")},
			{LoteID: b.ID.String(), Quantidade: 1, PrecoUnitario: preco("5.00")},
		},
	})
	require.NoError(t, err)

	var lotes []string
	for _, tr := range m.travas {
		if len(tr) > 5 && tr[:5] == "lote:" {
			lotes = append(lotes, tr[5:])
		}
	}
	require.Len(t, lotes, 2)
	assert.Less(t, lotes[0], lotes[1])
}

func TestVenda_ExcluirRestauraEstoque(t *testing.T) {
	m := novaMemoria()
	a, b := cenarioVenda(m)
	svc := novoVendaService(m, nil)
	ctx := context.Background()

	resp, err := svc.Finalizar(ctx, nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{
			{LoteID: a.ID.String(), Quantidade: 3, PrecoUnitario: preco("10.00")},
			{LoteID: b.ID.String(), Quantidade: 2, PrecoUnitario: preco("5.00")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Excluir(ctx, uuid.MustParse(resp.VendaID)))
	assert.Empty(t, m.vendas)
	assert.Equal(t, 10, m.qtdLote(a.ID))
	assert.Equal(t, 5, m.qtdLote(b.ID))
	assert.Equal(t, "10", m.estoqueProduto(a.ProdutoID))

	restauracoes := 0
	for _, mv := range m.movs {
		if mv.Tipo == model.EstoqueExclusaoVenda {
			restauracoes++
			assert.Positive(t, mv.Quantidade)
		}
	}
	assert.Equal(t, 2, restauracoes)

	assert.ErrorIs(t, svc.Excluir(ctx, uuid.New()), domain.ErrNotFound)
}

func TestVenda_AnularDevolveEstoqueUmaVez(t *testing.T) {
	m := novaMemoria()
	a, _ := cenarioVenda(m)
	svc := novoVendaService(m, nil)
	ctx := context.Background()

	resp, err := svc.Finalizar(ctx, nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{{LoteID: a.ID.String(), Quantidade: 4, PrecoUnitario: preco("10.00")}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.VendaID)

	require.NoError(t, svc.Anular(ctx, id))
	assert.Equal(t, model.VendaCancelada, m.vendas[id].Status)
	assert.Equal(t, 10, m.qtdLote(a.ID))

	assert.ErrorIs(t, svc.Anular(ctx, id), domain.ErrConflict)

	// a cancelled sale already returned its stock
	require.NoError(t, svc.Excluir(ctx, id))
	assert.Equal(t, 10, m.qtdLote(a.ID))
}

func TestVenda_Listar(t *testing.T) {
	m := novaMemoria()
	a, _ := cenarioVenda(m)
	svc := novoVendaService(m, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Finalizar(ctx, nil, dto.FinalizarVendaRequest{
			Itens: []dto.ItemVendaRequest{{LoteID: a.ID.String(), Quantidade: 1, PrecoUnitario: preco("10.00")}},
		})
		require.NoError(t, err)
	}

	lista, err := svc.Listar(ctx, dto.VendaFilter{Paginacao: dto.Paginacao{Page: 1, PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), lista.Total)
	assert.Equal(t, 2, lista.TotalPaginas)
	require.Len(t, lista.Items, 2)
	assert.Equal(t, 3, lista.Items[0].Numero)

	_, err = svc.Listar(ctx, dto.VendaFilter{Status: "aberta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Listar(ctx, dto.VendaFilter{StartDate: "01/03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVendaQuery_FimExclusivoNoDiaSeguinte(t *testing.T) {
	q, err := vendaQuery(dto.VendaFilter{StartDate: "2026-03-01", EndDate: "2026-03-31", Status: model.VendaFinalizada})
	require.NoError(t, err)
	require.NotNil(t, q.Inicio)
	require.NotNil(t, q.Fim)
	assert.Equal(t, "2026-03-01", q.Inicio.Format(dto.DataLayout))
	assert.Equal(t, "2026-04-01", q.Fim.Format(dto.DataLayout))
	assert.Equal(t, model.VendaFinalizada, q.Status)
}

func TestVenda_ExportarETermo(t *testing.T) {
	m := novaMemoria()
	a, _ := cenarioVenda(m)
	svc := novoVendaService(m, nil)
	ctx := context.Background()

	resp, err := svc.Finalizar(ctx, nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{{LoteID: a.ID.String(), Quantidade: 2, PrecoUnitario: preco("10.00")}},
	})
	require.NoError(t, err)

	xlsx, err := svc.Exportar(ctx, dto.VendaFilter{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsx, []byte("PK")), "xlsx is a zip container")

	pdf, err := svc.Termo(ctx, uuid.MustParse(resp.VendaID))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, err = svc.Termo(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVenda_EnviarTermo(t *testing.T) {
	m := novaMemoria()
	a, _ := cenarioVenda(m)
	ctx := context.Background()

	semFila := novoVendaService(m, nil)
	resp, err := semFila.Finalizar(ctx, nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{{LoteID: a.ID.String(), Quantidade: 1, PrecoUnitario: preco("10.00")}},
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.VendaID)
	assert.ErrorIs(t, semFila.EnviarTermo(ctx, id, "cliente@example.com"), domain.ErrUnavailable)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := novoVendaService(m, worker.NewDispatcher(rdb))

	require.NoError(t, svc.EnviarTermo(ctx, id, "cliente@example.com"))
	n, err := rdb.LLen(ctx, worker.QueueEmail).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, svc.EnviarTermo(ctx, uuid.New(), "cliente@example.com"), domain.ErrNotFound)
}
