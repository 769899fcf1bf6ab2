package service

import (
	"context"
	"testing"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProdutores struct{ rows map[uuid.UUID]model.ProdutorRural }

func novosProdutores() *stubProdutores {
	return &stubProdutores{rows: map[uuid.UUID]model.ProdutorRural{}}
}

func (r *stubProdutores) Create(_ context.Context, p *model.ProdutorRural) error {
	p.ID = uuid.New()
	r.rows[p.ID] = *p
	return nil
}

func (r *stubProdutores) FindByID(_ context.Context, id uuid.UUID) (*model.ProdutorRural, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, naoEncontrado("produtor")
	}
	return &p, nil
}

func (r *stubProdutores) ExistsDocumento(_ context.Context, doc string, exceto *uuid.UUID) (bool, error) {
	for _, p := range r.rows {
		if p.CPFCNPJ == doc && (exceto == nil || p.ID != *exceto) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProdutores) List(_ context.Context, _ string, _, _ int) ([]model.ProdutorRural, int64, error) {
	var out []model.ProdutorRural
	for _, p := range r.rows {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProdutores) Update(_ context.Context, p *model.ProdutorRural) error {
	r.rows[p.ID] = *p
	return nil
}

func (r *stubProdutores) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return naoEncontrado("produtor")
	}
	delete(r.rows, id)
	return nil
}

type stubResponsaveis struct{ rows map[uuid.UUID]model.ResponsavelTecnico }

func (r *stubResponsaveis) Create(_ context.Context, rt *model.ResponsavelTecnico) error {
	rt.ID = uuid.New()
	r.rows[rt.ID] = *rt
	return nil
}

func (r *stubResponsaveis) FindByID(_ context.Context, id uuid.UUID) (*model.ResponsavelTecnico, error) {
	rt, ok := r.rows[id]
	if !ok {
		return nil, naoEncontrado("responsável técnico")
	}
	return &rt, nil
}

func (r *stubResponsaveis) ExistsCPF(_ context.Context, cpf string, exceto *uuid.UUID) (bool, error) {
	for _, rt := range r.rows {
		if rt.CPF == cpf && (exceto == nil || rt.ID != *exceto) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubResponsaveis) List(_ context.Context, f dto.ResponsavelFilter) ([]model.ResponsavelTecnico, int64, error) {
	var out []model.ResponsavelTecnico
	for _, rt := range r.rows {
		if f.ProdutorID == "" || rt.ProdutorID.String() == f.ProdutorID {
			out = append(out, rt)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubResponsaveis) Update(_ context.Context, rt *model.ResponsavelTecnico) error {
	r.rows[rt.ID] = *rt
	return nil
}

func (r *stubResponsaveis) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return naoEncontrado("responsável técnico")
	}
	delete(r.rows, id)
	return nil
}

var (
	_ repository.ProdutorRepository    = (*stubProdutores)(nil)
	_ repository.ResponsavelRepository = (*stubResponsaveis)(nil)
)

func strPtr(s string) *string { return &s }

func TestProdutor_DocumentoTelefoneECEP(t *testing.T) {
	repo := novosProdutores()
	svc := NewProdutorService(repo, &stubResponsaveis{rows: map[uuid.UUID]model.ResponsavelTecnico{}})
	ctx := context.Background()

	p, err := svc.Criar(ctx, dto.ProdutorRequest{
		NomeFantasia:      strPtr("Sítio Boa Vista"),
		TipoPessoa:        model.PessoaFisica,
		CPFCNPJ:           "123.456.789-09",
		TelefonePrincipal: strPtr("(41) 99876-5432"),
		CEP:               strPtr("80000-000"),
		Estado:            strPtr("pr"),
	})
	require.NoError(t, err)
	assert.Equal(t, "12345678909", p.CPFCNPJ)
	assert.Equal(t, "41998765432", *p.TelefonePrincipal)
	assert.Equal(t, "80000000", *p.CEP)
	assert.Equal(t, "PR", *p.Estado)
	assert.Equal(t, "Sítio Boa Vista", p.Nome)
	assert.Equal(t, model.FunruralNaoSeAplica, p.FunruralTipo)

	casos := map[string]dto.ProdutorRequest{
		"PF com CNPJ":    {TipoPessoa: model.PessoaFisica, CPFCNPJ: "12345678000195", TelefonePrincipal: strPtr("4133334444")},
		"PJ com CPF":     {TipoPessoa: model.PessoaJuridica, CPFCNPJ: "98765432100", TelefonePrincipal: strPtr("4133334444")},
		"sem telefone":   {TipoPessoa: model.PessoaFisica, CPFCNPJ: "98765432100"},
		"telefone curto": {TipoPessoa: model.PessoaFisica, CPFCNPJ: "98765432100", TelefonePrincipal: strPtr("3333444")},
		"CEP curto":      {TipoPessoa: model.PessoaFisica, CPFCNPJ: "98765432100", TelefonePrincipal: strPtr("4133334444"), CEP: strPtr("8000")},
	}
	for nome, req := range casos {
		_, err := svc.Criar(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, nome)
	}

	_, err = svc.Criar(ctx, dto.ProdutorRequest{TipoPessoa: model.PessoaFisica, CPFCNPJ: "12345678909", TelefoneSecundario: strPtr("4133334444")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	id := uuid.MustParse(p.ID)
	p, err = svc.Atualizar(ctx, id, dto.ProdutorRequest{
		RazaoSocial:       strPtr("João da Silva"),
		TipoPessoa:        model.PessoaFisica,
		CPFCNPJ:           "12345678909",
		TelefonePrincipal: strPtr("4133334444"),
		Renasem:           strPtr("PR-12345/2026"),
	})
	require.NoError(t, err)
	assert.Equal(t, "João da Silva", p.Nome)
	assert.Equal(t, "PR-12345/2026", *p.Renasem)
}

func TestProdutor_ResponsaveisTecnicos(t *testing.T) {
	repo := novosProdutores()
	rts := &stubResponsaveis{rows: map[uuid.UUID]model.ResponsavelTecnico{}}
	svc := NewProdutorService(repo, rts)
	ctx := context.Background()

	p, err := svc.Criar(ctx, dto.ProdutorRequest{TipoPessoa: model.PessoaJuridica, CPFCNPJ: "12345678000195", TelefonePrincipal: strPtr("4133334444")})
	require.NoError(t, err)

	rt, err := svc.CriarResponsavel(ctx, dto.ResponsavelRequest{ProdutorID: p.ID, Nome: " Ana Agrônoma ", CPF: "111.444.777-35"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Agrônoma", rt.Nome)
	assert.Equal(t, "11144477735", rt.CPF)
	assert.Equal(t, p.ID, rt.ProdutorID)

	_, err = svc.CriarResponsavel(ctx, dto.ResponsavelRequest{ProdutorID: p.ID, Nome: "Outra", CPF: "11144477735"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.CriarResponsavel(ctx, dto.ResponsavelRequest{ProdutorID: p.ID, Nome: "CNPJ", CPF: "12345678000195"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CriarResponsavel(ctx, dto.ResponsavelRequest{ProdutorID: uuid.NewString(), Nome: "Órfão", CPF: "98765432100"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lista, err := svc.ListarResponsaveis(ctx, dto.ResponsavelFilter{ProdutorID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), lista.Total)

	_, err = svc.ListarResponsaveis(ctx, dto.ResponsavelFilter{ProdutorID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	id := uuid.MustParse(rt.ID)
	rt, err = svc.AtualizarResponsavel(ctx, id, dto.ResponsavelRequest{ProdutorID: p.ID, Nome: "Ana", CPF: "11144477735"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", rt.Nome)

	require.NoError(t, svc.ExcluirResponsavel(ctx, id))
	assert.ErrorIs(t, svc.ExcluirResponsavel(ctx, id), domain.ErrNotFound)
}

func TestProdutor_LoteVinculadoUsaRenasemDoProdutor(t *testing.T) {
	m := novaMemoria()
	alface := m.addProduto("ALF01", "Alface Crespa", "2.50")
	produtores := novosProdutores()
	svc := NewLoteService(stubLotes{m}, stubProdutos{m}, stubMovimentos{m}, produtores, nil, Rotulo{Sigla: "VL", Renasem: "PR-00000/2026"})
	ctx := context.Background()

	semRenasem := model.ProdutorRural{TipoPessoa: model.PessoaFisica, CPFCNPJ: "98765432100"}
	require.NoError(t, produtores.Create(ctx, &semRenasem))
	comRenasem := model.ProdutorRural{TipoPessoa: model.PessoaFisica, CPFCNPJ: "12345678909", Renasem: strPtr("PR-12345/2026")}
	require.NoError(t, produtores.Create(ctx, &comRenasem))

	id := comRenasem.ID.String()
	l, err := svc.Criar(ctx, dto.LoteRequest{ProdutoID: alface.ID.String(), DataSemeadura: "2026-03-15", Quantidade: 10, ProdutorID: &id})
	require.NoError(t, err)
	require.NotNil(t, l.ProdutorID)
	assert.Equal(t, id, *l.ProdutorID)

	desconhecido := uuid.NewString()
	_, err = svc.Criar(ctx, dto.LoteRequest{ProdutoID: alface.ID.String(), DataSemeadura: "2026-03-16", Quantidade: 10, ProdutorID: &desconhecido})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, "PR-12345/2026", renasemDoProdutor(ctx, produtores, &comRenasem.ID, "PR-00000/2026"))
	assert.Equal(t, "PR-00000/2026", renasemDoProdutor(ctx, produtores, &semRenasem.ID, "PR-00000/2026"))
	assert.Equal(t, "PR-00000/2026", renasemDoProdutor(ctx, produtores, nil, "PR-00000/2026"))
	ausente := uuid.New()
	assert.Equal(t, "PR-00000/2026", renasemDoProdutor(ctx, produtores, &ausente, "PR-00000/2026"))

	pdf, err := svc.Etiqueta(ctx, uuid.MustParse(l.ID), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
