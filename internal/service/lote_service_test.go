package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/infra"
	"viveiro/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoLoteService(m *memoria, precos *infra.Cache) LoteService {
	return NewLoteService(stubLotes{m}, stubProdutos{m}, stubMovimentos{m}, novosProdutores(), precos, Rotulo{Sigla: "VL", Renasem: "PR-00000/2026"})
}

func TestLote_CriarGeraCodigoEAudita(t *testing.T) {
	m := novaMemoria()
	alface := m.addProduto("ALF01", "Alface Crespa", "2.50")
	svc := novoLoteService(m, nil)

	resp, err := svc.Criar(context.Background(), dto.LoteRequest{
		ProdutoID:     alface.ID.String(),
		DataSemeadura: "2026-03-15",
		Quantidade:    40,
	})
	require.NoError(t, err)
	assert.Equal(t, "ALF01150326", resp.Codigo)
	assert.Equal(t, 40, resp.Quantidade)
	assert.True(t, dec("2.50").Equal(resp.PrecoUnitario))
	assert.Equal(t, "Alface Crespa", resp.Produto)

	assert.Equal(t, "40", m.estoqueProduto(alface.ID))
	require.Len(t, m.movs, 1)
	assert.Equal(t, model.EstoqueAjuste, m.movs[0].Tipo)
	assert.Equal(t, 0, m.movs[0].QuantidadeAnterior)
	assert.Equal(t, 40, m.movs[0].QuantidadeNova)

	_, err = svc.Criar(context.Background(), dto.LoteRequest{ProdutoID: alface.ID.String(), DataSemeadura: "2026-03-15"})
	assert.ErrorIs(t, err, domain.ErrConflict, "same product and date")

	_, err = svc.Criar(context.Background(), dto.LoteRequest{ProdutoID: alface.ID.String(), DataSemeadura: "15/03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLote_AtualizarTrocaProdutoERecalculaAmbos(t *testing.T) {
	m := novaMemoria()
	alface := m.addProduto("ALF01", "Alface Crespa", "2.50")
	rucula := m.addProduto("RUC01", "Rúcula", "3.00")
	l := m.addLote(alface, "2026-03-15", 40)
	svc := novoLoteService(m, nil)

	resp, err := svc.Atualizar(context.Background(), l.ID, dto.LoteRequest{
		ProdutoID:     rucula.ID.String(),
		DataSemeadura: "2026-03-16",
		Quantidade:    35,
	})
	require.NoError(t, err)
	assert.Equal(t, l.Codigo, resp.Codigo, "code is never regenerated")
	assert.Equal(t, 35, resp.Quantidade)
	assert.True(t, dec("3.00").Equal(resp.PrecoUnitario))

	assert.Equal(t, "0", m.estoqueProduto(alface.ID))
	assert.Equal(t, "35", m.estoqueProduto(rucula.ID))
	require.Len(t, m.movs, 1)
	assert.Equal(t, -5, m.movs[0].Quantidade)
}

func TestLote_ExcluirComReferenciasFalha(t *testing.T) {
	m := novaMemoria()
	a, b := cenarioVenda(m)
	_, err := novoVendaService(m, nil).Finalizar(context.Background(), nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{{LoteID: a.ID.String(), Quantidade: 1, PrecoUnitario: preco("10")}},
	})
	require.NoError(t, err)
	svc := novoLoteService(m, nil)

	assert.ErrorIs(t, svc.Excluir(context.Background(), a.ID), domain.ErrConflict)

	require.NoError(t, svc.Excluir(context.Background(), b.ID))
	assert.Equal(t, "0", m.estoqueProduto(b.ProdutoID))
}

func TestLote_ExcluirContaReferenciasSobTrava(t *testing.T) {
	m := novaMemoria()
	a, _ := cenarioVenda(m)
	svc := novoLoteService(m, nil)

	require.NoError(t, svc.Excluir(context.Background(), a.ID))

	trava, refs := -1, -1
	for i, tr := range m.travas {
		switch tr {
		case "lote:" + a.ID.String():
			trava = i
		case "refs:" + a.ID.String():
			refs = i
		}
	}
	require.GreaterOrEqual(t, trava, 0)
	assert.Greater(t, refs, trava, "references are counted after the batch lock")
	_, ok := m.lotes[a.ID]
	assert.False(t, ok)
}

func TestLote_PorCodigoUsaCacheEInvalida(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := novaMemoria()
	a, _ := cenarioVenda(m)
	precos := infra.NewCache(rdb, "lote", time.Minute)
	svc := novoLoteService(m, precos)
	ctx := context.Background()

	resp, err := svc.PorCodigo(ctx, a.Codigo)
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Quantidade)
	assert.True(t, mr.Exists("lote:"+a.Codigo))

	_, err = NewVendaService(stubVendas{m}, stubLotes{m}, stubProdutos{m}, stubMovimentos{m}, stubClientes{m},
		precos, nil, infra.Empresa{}).Finalizar(ctx, nil, dto.FinalizarVendaRequest{
		Itens: []dto.ItemVendaRequest{{LoteID: a.ID.String(), Quantidade: 4, PrecoUnitario: preco("10")}},
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("lote:"+a.Codigo), "sale invalidates the cached lookup")

	resp, err = svc.PorCodigo(ctx, a.Codigo)
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Quantidade)

	_, err = svc.PorCodigo(ctx, "NAOEXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLote_Etiqueta(t *testing.T) {
	m := novaMemoria()
	a, _ := cenarioVenda(m)
	svc := novoLoteService(m, nil)

	pdf, err := svc.Etiqueta(context.Background(), a.ID, 3)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	for _, n := range []int{0, infra.MaxCopiasEtiqueta + 1} {
		_, err = svc.Etiqueta(context.Background(), a.ID, n)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	_, err = svc.Etiqueta(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLote_BuscarVazioNaoConsulta(t *testing.T) {
	svc := novoLoteService(novaMemoria(), nil)
	out, err := svc.Buscar(context.Background(), "  ")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
