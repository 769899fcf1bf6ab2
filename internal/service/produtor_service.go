package service

import (
	"context"
	"fmt"
	"strings"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
)

// ProdutorService maintains rural producers and their technical managers.
type ProdutorService interface {
	Criar(ctx context.Context, req dto.ProdutorRequest) (*dto.ProdutorResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutorResponse, error)
	Listar(ctx context.Context, q string, p dto.Paginacao) (*dto.Lista[dto.ProdutorResponse], error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.ProdutorRequest) (*dto.ProdutorResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error

	CriarResponsavel(ctx context.Context, req dto.ResponsavelRequest) (*dto.ResponsavelResponse, error)
	ObterResponsavel(ctx context.Context, id uuid.UUID) (*dto.ResponsavelResponse, error)
	ListarResponsaveis(ctx context.Context, filter dto.ResponsavelFilter) (*dto.Lista[dto.ResponsavelResponse], error)
	AtualizarResponsavel(ctx context.Context, id uuid.UUID, req dto.ResponsavelRequest) (*dto.ResponsavelResponse, error)
	ExcluirResponsavel(ctx context.Context, id uuid.UUID) error
}

type produtorService struct {
	repo         repository.ProdutorRepository
	responsaveis repository.ResponsavelRepository
}

func NewProdutorService(repo repository.ProdutorRepository, responsaveis repository.ResponsavelRepository) ProdutorService {
	return &produtorService{repo: repo, responsaveis: responsaveis}
}

func (s *produtorService) Criar(ctx context.Context, req dto.ProdutorRequest) (*dto.ProdutorResponse, error) {
	p := &model.ProdutorRural{}
	if err := s.aplicarRequest(ctx, p, req, nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := produtorToResponse(p)
	return &resp, nil
}

func (s *produtorService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := produtorToResponse(p)
	return &resp, nil
}

func (s *produtorService) Listar(ctx context.Context, q string, p dto.Paginacao) (*dto.Lista[dto.ProdutorResponse], error) {
	p.Normalizar(10, 100)
	ps, total, err := s.repo.List(ctx, strings.TrimSpace(q), p.Offset(), p.PageSize)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProdutorResponse, len(ps))
	for i := range ps {
		items[i] = produtorToResponse(&ps[i])
	}
	return dto.NovaLista(items, total, p), nil
}

func (s *produtorService) Atualizar(ctx context.Context, id uuid.UUID, req dto.ProdutorRequest) (*dto.ProdutorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.aplicarRequest(ctx, p, req, &id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := produtorToResponse(p)
	return &resp, nil
}

func (s *produtorService) Excluir(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// aplicarRequest normalises document, phones and CEP to digits. The document
// length must match the person kind and at least one phone is required.
func (s *produtorService) aplicarRequest(ctx context.Context, p *model.ProdutorRural, req dto.ProdutorRequest, exceto *uuid.UUID) error {
	doc, err := NormalizarDocumento(req.CPFCNPJ)
	if err != nil {
		return err
	}
	if req.TipoPessoa == model.PessoaFisica && len(doc) != 11 {
		return fmt.Errorf("%w: pessoa física exige CPF com 11 dígitos", domain.ErrInvalidInput)
	}
	if req.TipoPessoa == model.PessoaJuridica && len(doc) != 14 {
		return fmt.Errorf("%w: pessoa jurídica exige CNPJ com 14 dígitos", domain.ErrInvalidInput)
	}

	tel1, err := normalizarTelefone(req.TelefonePrincipal, "telefone_principal")
	if err != nil {
		return err
	}
	tel2, err := normalizarTelefone(req.TelefoneSecundario, "telefone_secundario")
	if err != nil {
		return err
	}
	if tel1 == nil && tel2 == nil {
		return fmt.Errorf("%w: informe ao menos um telefone", domain.ErrInvalidInput)
	}
	cep, err := normalizarCEP(req.CEP)
	if err != nil {
		return err
	}

	existe, err := s.repo.ExistsDocumento(ctx, doc, exceto)
	if err != nil {
		return err
	}
	if existe {
		return fmt.Errorf("%w: já existe produtor com este CPF/CNPJ", domain.ErrConflict)
	}

	funrural := req.FunruralTipo
	if funrural == "" {
		funrural = model.FunruralNaoSeAplica
	}

	p.NomeFantasia = req.NomeFantasia
	p.RazaoSocial = req.RazaoSocial
	p.TipoPessoa = req.TipoPessoa
	p.CPFCNPJ = doc
	p.RG = req.RG
	p.InscricaoEstadual = req.InscricaoEstadual
	p.EmailContato = req.EmailContato
	p.TelefonePrincipal = tel1
	p.TelefoneSecundario = tel2
	p.CEP = cep
	p.Endereco = req.Endereco
	p.Numero = req.Numero
	p.Complemento = req.Complemento
	p.Bairro = req.Bairro
	p.Cidade = req.Cidade
	p.Estado = upperPtr(req.Estado)
	p.Renasem = req.Renasem
	p.FunruralTipo = funrural
	p.Observacoes = req.Observacoes
	return nil
}

// ── Responsáveis técnicos ────────────────────────────────────────────────────

func (s *produtorService) CriarResponsavel(ctx context.Context, req dto.ResponsavelRequest) (*dto.ResponsavelResponse, error) {
	rt := &model.ResponsavelTecnico{}
	if err := s.aplicarResponsavel(ctx, rt, req, nil); err != nil {
		return nil, err
	}
	if err := s.responsaveis.Create(ctx, rt); err != nil {
		return nil, err
	}
	resp := responsavelToResponse(rt)
	return &resp, nil
}

func (s *produtorService) ObterResponsavel(ctx context.Context, id uuid.UUID) (*dto.ResponsavelResponse, error) {
	rt, err := s.responsaveis.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := responsavelToResponse(rt)
	return &resp, nil
}

func (s *produtorService) ListarResponsaveis(ctx context.Context, filter dto.ResponsavelFilter) (*dto.Lista[dto.ResponsavelResponse], error) {
	if filter.ProdutorID != "" {
		if _, err := uuid.Parse(filter.ProdutorID); err != nil {
			return nil, fmt.Errorf("%w: produtor_id inválido", domain.ErrInvalidInput)
		}
	}
	filter.Normalizar(20, 100)
	rts, total, err := s.responsaveis.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ResponsavelResponse, len(rts))
	for i := range rts {
		items[i] = responsavelToResponse(&rts[i])
	}
	return dto.NovaLista(items, total, filter.Paginacao), nil
}

func (s *produtorService) AtualizarResponsavel(ctx context.Context, id uuid.UUID, req dto.ResponsavelRequest) (*dto.ResponsavelResponse, error) {
	rt, err := s.responsaveis.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.aplicarResponsavel(ctx, rt, req, &id); err != nil {
		return nil, err
	}
	if err := s.responsaveis.Update(ctx, rt); err != nil {
		return nil, err
	}
	resp := responsavelToResponse(rt)
	return &resp, nil
}

func (s *produtorService) ExcluirResponsavel(ctx context.Context, id uuid.UUID) error {
	return s.responsaveis.Delete(ctx, id)
}

func (s *produtorService) aplicarResponsavel(ctx context.Context, rt *model.ResponsavelTecnico, req dto.ResponsavelRequest, exceto *uuid.UUID) error {
	produtorID, err := uuid.Parse(req.ProdutorID)
	if err != nil {
		return fmt.Errorf("%w: produtor_rural inválido", domain.ErrInvalidInput)
	}
	if _, err := s.repo.FindByID(ctx, produtorID); err != nil {
		return err
	}
	cpf, err := NormalizarDocumento(req.CPF)
	if err != nil {
		return err
	}
	if len(cpf) != 11 {
		return fmt.Errorf("%w: responsável técnico exige CPF com 11 dígitos", domain.ErrInvalidInput)
	}
	tel, err := normalizarTelefone(req.Telefone, "telefone")
	if err != nil {
		return err
	}
	existe, err := s.responsaveis.ExistsCPF(ctx, cpf, exceto)
	if err != nil {
		return err
	}
	if existe {
		return fmt.Errorf("%w: já existe responsável técnico com este CPF", domain.ErrConflict)
	}

	rt.ProdutorID = produtorID
	rt.Nome = strings.TrimSpace(req.Nome)
	rt.CPF = cpf
	rt.RegistroProfissional = req.RegistroProfissional
	rt.Telefone = tel
	rt.Email = req.Email
	rt.Observacoes = req.Observacoes
	return nil
}

// normalizarTelefone keeps digits only and accepts 10 or 11 of them. Blank is nil.
func normalizarTelefone(raw *string, campo string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	d := apenasDigitos(*raw)
	if d == "" {
		return nil, nil
	}
	if len(d) != 10 && len(d) != 11 {
		return nil, fmt.Errorf("%w: %s deve ter 10 ou 11 dígitos", domain.ErrInvalidInput, campo)
	}
	return &d, nil
}

func normalizarCEP(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	d := apenasDigitos(*raw)
	if d == "" {
		return nil, nil
	}
	if len(d) != 8 {
		return nil, fmt.Errorf("%w: CEP deve conter 8 dígitos", domain.ErrInvalidInput)
	}
	return &d, nil
}

func produtorToResponse(p *model.ProdutorRural) dto.ProdutorResponse {
	resp := dto.ProdutorResponse{
		ID:                 p.ID.String(),
		Nome:               p.Nome(),
		NomeFantasia:       p.NomeFantasia,
		RazaoSocial:        p.RazaoSocial,
		TipoPessoa:         p.TipoPessoa,
		CPFCNPJ:            p.CPFCNPJ,
		RG:                 p.RG,
		InscricaoEstadual:  p.InscricaoEstadual,
		EmailContato:       p.EmailContato,
		TelefonePrincipal:  p.TelefonePrincipal,
		TelefoneSecundario: p.TelefoneSecundario,
		CEP:                p.CEP,
		Endereco:           p.Endereco,
		Numero:             p.Numero,
		Complemento:        p.Complemento,
		Bairro:             p.Bairro,
		Cidade:             p.Cidade,
		Estado:             p.Estado,
		Renasem:            p.Renasem,
		FunruralTipo:       p.FunruralTipo,
		Observacoes:        p.Observacoes,
		DataCadastro:       p.CreatedAt.Format(dto.DataLayout),
		Responsaveis:       make([]dto.ResponsavelResponse, len(p.Responsaveis)),
	}
	for i := range p.Responsaveis {
		resp.Responsaveis[i] = responsavelToResponse(&p.Responsaveis[i])
	}
	return resp
}

func responsavelToResponse(rt *model.ResponsavelTecnico) dto.ResponsavelResponse {
	return dto.ResponsavelResponse{
		ID:                   rt.ID.String(),
		ProdutorID:           rt.ProdutorID.String(),
		Nome:                 rt.Nome,
		CPF:                  rt.CPF,
		RegistroProfissional: rt.RegistroProfissional,
		Telefone:             rt.Telefone,
		Email:                rt.Email,
		Observacoes:          rt.Observacoes,
	}
}
