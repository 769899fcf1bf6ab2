package service

import (
	"context"
	"testing"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaixa_SaldoEhVendasMenosRetiradas(t *testing.T) {
	m := novaMemoria()
	a, b := cenarioVenda(m)
	vendas := novoVendaService(m, nil)
	caixa := NewCaixaService(stubCaixa{m}, stubVendas{m})
	ctx := context.Background()

	_, err := vendas.Finalizar(ctx, nil, dto.FinalizarVendaRequest{Itens: []dto.ItemVendaRequest{
		{LoteID: a.ID.String(), Quantidade: 3, PrecoUnitario: preco("10.00")},
		{LoteID: b.ID.String(), Quantidade: 2, PrecoUnitario: preco("5.00")},
	}})
	require.NoError(t, err)
	_, err = vendas.Finalizar(ctx, nil, dto.FinalizarVendaRequest{Itens: []dto.ItemVendaRequest{
		{LoteID: b.ID.String(), Quantidade: 1, PrecoUnitario: preco("5.00")},
	}})
	require.NoError(t, err)
	cancelada, err := vendas.Finalizar(ctx, nil, dto.FinalizarVendaRequest{Itens: []dto.ItemVendaRequest{
		{LoteID: a.ID.String(), Quantidade: 1, PrecoUnitario: preco("99.00")},
	}})
	require.NoError(t, err)
	require.NoError(t, vendas.Anular(ctx, uuid.MustParse(cancelada.VendaID)))

	_, err = caixa.RegistrarMovimento(ctx, nil, dto.MovimentoCaixaRequest{Tipo: model.MovimentoRetirada, Valor: preco("12.50"), Descricao: "troco"})
	require.NoError(t, err)
	_, err = caixa.RegistrarMovimento(ctx, nil, dto.MovimentoCaixaRequest{Tipo: model.MovimentoEntrada, Valor: preco("100"), Descricao: "fundo"})
	require.NoError(t, err)

	h, err := caixa.Historico(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("45").Equal(h.TotalVendas), "vendas = %s", h.TotalVendas)
	assert.True(t, decimal.RequireFromString("12.50").Equal(h.TotalRetiradas))
	assert.True(t, decimal.RequireFromString("100").Equal(h.TotalEntradas))
	assert.True(t, decimal.RequireFromString("32.50").Equal(h.Saldo), "saldo = %s", h.Saldo)

	require.Len(t, h.Movimentos, 2)
	assert.Equal(t, model.MovimentoEntrada, h.Movimentos[0].Tipo, "newest first")
}

func TestCaixa_ValorDeveSerPositivo(t *testing.T) {
	m := novaMemoria()
	caixa := NewCaixaService(stubCaixa{m}, stubVendas{m})

	for _, v := range []*decimal.Decimal{nil, preco("0"), preco("-5")} {
		_, err := caixa.RegistrarMovimento(context.Background(), nil, dto.MovimentoCaixaRequest{Tipo: model.MovimentoRetirada, Valor: v})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	_, err := caixa.RegistrarMovimento(context.Background(), nil, dto.MovimentoCaixaRequest{Tipo: "sangria", Valor: preco("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, m.caixa)
}

func TestCaixa_RegistraUsuarioEArredonda(t *testing.T) {
	m := novaMemoria()
	caixa := NewCaixaService(stubCaixa{m}, stubVendas{m})
	uid := uuid.New()

	resp, err := caixa.RegistrarMovimento(context.Background(), &uid, dto.MovimentoCaixaRequest{Tipo: model.MovimentoRetirada, Valor: preco("10.005")})
	require.NoError(t, err)
	assert.Equal(t, "10.01", resp.Valor.StringFixed(2))
	require.Len(t, m.caixa, 1)
	assert.Equal(t, uid, *m.caixa[0].UsuarioID)
}
