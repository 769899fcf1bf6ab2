package service

import (
	"context"
	"strings"
	"testing"

	"viveiro/internal/domain"
	"viveiro/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFiscal struct {
	codigo, q  string
	ncms       []model.NCM
	importados []model.NCM
	cfops      []model.CFOP
}

func (s *stubFiscal) SearchNCM(_ context.Context, codigo, q string, _ int) ([]model.NCM, error) {
	s.codigo, s.q = codigo, q
	return s.ncms, nil
}

func (s *stubFiscal) SearchCFOP(_ context.Context, codigo, q string, _ int) ([]model.CFOP, error) {
	s.codigo, s.q = codigo, q
	return s.cfops, nil
}

func (s *stubFiscal) FindNCMByID(_ context.Context, id uuid.UUID) (*model.NCM, error) {
	for _, n := range s.ncms {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, naoEncontrado("NCM")
}

func (s *stubFiscal) FindCFOPByID(_ context.Context, id uuid.UUID) (*model.CFOP, error) {
	for _, c := range s.cfops {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, naoEncontrado("CFOP")
}

func (s *stubFiscal) ImportNCM(_ context.Context, ncms []model.NCM) (int64, error) {
	s.importados = ncms
	return int64(len(ncms)), nil
}

func (s *stubFiscal) ReplaceCFOP(_ context.Context, cfops []model.CFOP) error {
	s.cfops = cfops
	return nil
}

func TestFiscal_BuscarNCMReconheceCodigo(t *testing.T) {
	repo := &stubFiscal{ncms: []model.NCM{{ID: uuid.New(), Codigo: "0602.90.89", Descricao: "Outras plantas vivas"}}}
	svc := NewFiscalService(repo)
	ctx := context.Background()

	out, err := svc.BuscarNCM(ctx, "0602.9089")
	require.NoError(t, err)
	assert.Equal(t, "06029089", repo.codigo)
	require.Len(t, out, 1)
	assert.Equal(t, "0602.90.89 - Outras plantas vivas", out[0].Text)

	_, err = svc.BuscarNCM(ctx, "plantas")
	require.NoError(t, err)
	assert.Empty(t, repo.codigo)
	assert.Equal(t, "plantas", repo.q)

	out, err = svc.BuscarNCM(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFiscal_BuscarCFOP(t *testing.T) {
	repo := &stubFiscal{}
	svc := NewFiscalService(repo)

	_, err := svc.BuscarCFOP(context.Background(), "5.102")
	require.NoError(t, err)
	assert.Equal(t, "5102", repo.codigo)

	_, err = svc.BuscarCFOP(context.Background(), "venda")
	require.NoError(t, err)
	assert.Empty(t, repo.codigo)
}

func TestFiscal_ImportarNCM(t *testing.T) {
	repo := &stubFiscal{}
	svc := NewFiscalService(repo)

	n, err := svc.ImportarNCM(context.Background(), strings.NewReader(`{"Nomenclaturas":[
		{"Codigo":"06.02","Descricao":"Outras plantas vivas"},
		{"Codigo":"0602.90.89","Descricao":" Outras "},
		{"Codigo":"","Descricao":"sem código"}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "Outras", repo.importados[1].Descricao)

	_, err = svc.ImportarNCM(context.Background(), strings.NewReader(`[`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseCFOP(t *testing.T) {
	cfops, err := parseCFOP(strings.NewReader(`# CFOP
5.102 - Venda de mercadoria adquirida

6.102 - Venda interestadual - contribuinte
linha sem separador
`))
	require.NoError(t, err)
	require.Len(t, cfops, 2)
	assert.Equal(t, "5.102", cfops[0].Codigo)
	assert.Equal(t, "Venda interestadual - contribuinte", cfops[1].Descricao)
}

func TestFiscal_ImportarCFOPSubstituiTabela(t *testing.T) {
	repo := &stubFiscal{cfops: []model.CFOP{{Codigo: "1.000", Descricao: "antigo"}}}
	n, err := NewFiscalService(repo).ImportarCFOP(context.Background(), strings.NewReader("5.102 - Venda\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, repo.cfops, 1)
	assert.Equal(t, "5.102", repo.cfops[0].Codigo)
}
