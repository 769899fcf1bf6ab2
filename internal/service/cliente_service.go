package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/infra"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
)

// ConsultaCNPJ is satisfied by infra.CNPJClient.
type ConsultaCNPJ interface {
	Consultar(ctx context.Context, cnpj string) (*infra.CNPJInfo, error)
}

type ClienteService interface {
	Criar(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.Lista[dto.ClienteResponse], error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	ConsultarCNPJ(ctx context.Context, cnpj string) (*dto.CNPJResponse, error)
}

type clienteService struct {
	repo  repository.ClienteRepository
	cnpj  ConsultaCNPJ
	cache *infra.Cache
}

func NewClienteService(repo repository.ClienteRepository, cnpj ConsultaCNPJ, cache *infra.Cache) ClienteService {
	return &clienteService{repo: repo, cnpj: cnpj, cache: cache}
}

func (s *clienteService) Criar(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{}
	if err := s.aplicarRequest(ctx, c, req, nil); err != nil {
		return nil, err
	}
	codigo, err := s.gerarCodigoUnico(ctx, c)
	if err != nil {
		return nil, err
	}
	c.CodigoUnico = codigo
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.Lista[dto.ClienteResponse], error) {
	filter.Normalizar(10, 100)
	if pareceDocumento(filter.Q) {
		filter.Q = apenasDigitos(filter.Q)
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		items[i] = clienteToResponse(&clientes[i])
	}
	return dto.NovaLista(items, total, filter.Paginacao), nil
}

// Atualizar keeps the codigo_unico assigned at creation.
func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.aplicarRequest(ctx, c, req, &id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := clienteToResponse(c)
	return &resp, nil
}

func (s *clienteService) Excluir(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ConsultarCNPJ serves from cache first; misses go to the public API.
func (s *clienteService) ConsultarCNPJ(ctx context.Context, raw string) (*dto.CNPJResponse, error) {
	cnpj := apenasDigitos(raw)
	if len(cnpj) != 14 {
		return nil, fmt.Errorf("%w: CNPJ deve ter 14 dígitos", domain.ErrInvalidInput)
	}
	var cached dto.CNPJResponse
	if s.cache.Get(ctx, cnpj, &cached) {
		return &cached, nil
	}
	if s.cnpj == nil {
		return nil, fmt.Errorf("%w: consulta de CNPJ", domain.ErrUnavailable)
	}

	info, err := s.cnpj.Consultar(ctx, cnpj)
	switch {
	case errors.Is(err, infra.ErrCNPJNaoEncontrado):
		return nil, fmt.Errorf("%w: CNPJ %s", domain.ErrNotFound, cnpj)
	case err != nil:
		return nil, fmt.Errorf("%w: consulta de CNPJ: %v", domain.ErrUnavailable, err)
	}

	resp := cnpjToResponse(cnpj, info)
	s.cache.Set(ctx, cnpj, resp)
	return &resp, nil
}

func (s *clienteService) aplicarRequest(ctx context.Context, c *model.Cliente, req dto.ClienteRequest, exceto *uuid.UUID) error {
	doc, err := NormalizarDocumento(req.CPFCNPJ)
	if err != nil {
		return err
	}
	switch req.TipoCliente {
	case model.PessoaFisica:
		if req.NomeCompleto == nil || strings.TrimSpace(*req.NomeCompleto) == "" {
			return fmt.Errorf("%w: nome_completo é obrigatório para pessoa física", domain.ErrInvalidInput)
		}
	case model.PessoaJuridica:
		if req.RazaoSocial == nil || strings.TrimSpace(*req.RazaoSocial) == "" {
			return fmt.Errorf("%w: razao_social é obrigatória para pessoa jurídica", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: tipo_cliente deve ser PF ou PJ", domain.ErrInvalidInput)
	}
	existe, err := s.repo.ExistsDocumento(ctx, doc, exceto)
	if err != nil {
		return err
	}
	if existe {
		return fmt.Errorf("%w: já existe cliente com este CPF/CNPJ", domain.ErrConflict)
	}

	c.TipoCliente = req.TipoCliente
	c.NomeCompleto = req.NomeCompleto
	c.RazaoSocial = req.RazaoSocial
	c.NomeFantasia = req.NomeFantasia
	c.CPFCNPJ = doc
	c.InscricaoEstadual = req.InscricaoEstadual
	c.Telefone = req.Telefone
	c.Email = req.Email
	c.Endereco = req.Endereco
	c.Cidade = req.Cidade
	c.Estado = upperPtr(req.Estado)
	c.Observacoes = req.Observacoes
	return nil
}

// gerarCodigoUnico appends -1, -2, … to the base until it is free.
func (s *clienteService) gerarCodigoUnico(ctx context.Context, c *model.Cliente) (string, error) {
	nome := ""
	if c.TipoCliente == model.PessoaJuridica && c.RazaoSocial != nil {
		nome = *c.RazaoSocial
	} else if c.NomeCompleto != nil {
		nome = *c.NomeCompleto
	}
	cidade := ""
	if c.Cidade != nil {
		cidade = *c.Cidade
	}
	base := baseCodigoUnico(nome, cidade, c.CPFCNPJ)
	if base == "" {
		base = "cliente"
	}
	codigo := base
	for i := 1; ; i++ {
		existe, err := s.repo.ExistsCodigoUnico(ctx, codigo, nil)
		if err != nil {
			return "", err
		}
		if !existe {
			return codigo, nil
		}
		codigo = fmt.Sprintf("%s-%d", base, i)
	}
}

// pareceDocumento reports a query made only of digits and CPF/CNPJ punctuation.
func pareceDocumento(q string) bool {
	if apenasDigitos(q) == "" {
		return false
	}
	return strings.Trim(q, "0123456789./- ") == ""
}

func upperPtr(s *string) *string {
	if s == nil {
		return nil
	}
	u := strings.ToUpper(*s)
	return &u
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:                c.ID.String(),
		CodigoUnico:       c.CodigoUnico,
		TipoCliente:       c.TipoCliente,
		Nome:              c.Nome(),
		NomeCompleto:      c.NomeCompleto,
		RazaoSocial:       c.RazaoSocial,
		NomeFantasia:      c.NomeFantasia,
		CPFCNPJ:           c.CPFCNPJ,
		InscricaoEstadual: c.InscricaoEstadual,
		Telefone:          c.Telefone,
		Email:             c.Email,
		Endereco:          c.Endereco,
		Cidade:            c.Cidade,
		Estado:            c.Estado,
		Observacoes:       c.Observacoes,
	}
}

func cnpjToResponse(cnpj string, info *infra.CNPJInfo) dto.CNPJResponse {
	endereco := strings.TrimSpace(info.Logradouro)
	if info.Numero != "" {
		endereco += ", " + info.Numero
	}
	if info.Bairro != "" {
		endereco += " - " + info.Bairro
	}
	return dto.CNPJResponse{
		CNPJ:         cnpj,
		RazaoSocial:  info.Nome,
		NomeFantasia: info.Fantasia,
		Endereco:     strings.Trim(endereco, " ,-"),
		Cidade:       info.Municipio,
		Estado:       info.UF,
		CEP:          apenasDigitos(info.CEP),
		Telefone:     info.Telefone,
		Email:        info.Email,
		Situacao:     info.Situacao,
	}
}
