package service

import (
	"context"
	"fmt"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
)

type FornecedorService interface {
	Criar(ctx context.Context, req dto.FornecedorRequest) (*dto.FornecedorResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.FornecedorResponse, error)
	Listar(ctx context.Context, q string, p dto.Paginacao) (*dto.Lista[dto.FornecedorResponse], error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.FornecedorRequest) (*dto.FornecedorResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
}

type fornecedorService struct {
	repo     repository.FornecedorRepository
	produtos repository.ProdutoRepository
}

func NewFornecedorService(repo repository.FornecedorRepository, produtos repository.ProdutoRepository) FornecedorService {
	return &fornecedorService{repo: repo, produtos: produtos}
}

func (s *fornecedorService) Criar(ctx context.Context, req dto.FornecedorRequest) (*dto.FornecedorResponse, error) {
	f := &model.Fornecedor{}
	if err := s.aplicarRequest(ctx, f, req, nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	resp := fornecedorToResponse(f)
	return &resp, nil
}

func (s *fornecedorService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.FornecedorResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := fornecedorToResponse(f)
	return &resp, nil
}

func (s *fornecedorService) Listar(ctx context.Context, q string, p dto.Paginacao) (*dto.Lista[dto.FornecedorResponse], error) {
	p.Normalizar(10, 100)
	fs, total, err := s.repo.List(ctx, q, p.Offset(), p.PageSize)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FornecedorResponse, len(fs))
	for i := range fs {
		items[i] = fornecedorToResponse(&fs[i])
	}
	return dto.NovaLista(items, total, p), nil
}

func (s *fornecedorService) Atualizar(ctx context.Context, id uuid.UUID, req dto.FornecedorRequest) (*dto.FornecedorResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.aplicarRequest(ctx, f, req, &id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	resp := fornecedorToResponse(f)
	return &resp, nil
}

func (s *fornecedorService) Excluir(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// aplicarRequest resolves the supplied product ids; any unknown id is ErrNotFound.
func (s *fornecedorService) aplicarRequest(ctx context.Context, f *model.Fornecedor, req dto.FornecedorRequest, exceto *uuid.UUID) error {
	doc, err := NormalizarDocumento(req.CPFCNPJ)
	if err != nil {
		return err
	}
	existe, err := s.repo.ExistsDocumento(ctx, doc, exceto)
	if err != nil {
		return err
	}
	if existe {
		return fmt.Errorf("%w: já existe fornecedor com este CPF/CNPJ", domain.ErrConflict)
	}

	ids := make([]uuid.UUID, 0, len(req.ProdutoIDs))
	for _, raw := range req.ProdutoIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: produto_ids contém id inválido", domain.ErrInvalidInput)
		}
		ids = append(ids, id)
	}
	ids = repository.SortIDs(ids)
	produtos := []model.Produto{}
	if len(ids) > 0 {
		if produtos, err = s.produtos.FindByIDs(ctx, ids); err != nil {
			return err
		}
		if len(produtos) != len(ids) {
			return fmt.Errorf("%w: um ou mais produtos informados", domain.ErrNotFound)
		}
	}

	f.NomeEmpresa = req.NomeEmpresa
	f.NomeContato = req.NomeContato
	f.CPFCNPJ = doc
	f.Telefone = req.Telefone
	f.Email = req.Email
	f.Endereco = req.Endereco
	f.Cidade = req.Cidade
	f.Estado = upperPtr(req.Estado)
	f.Observacoes = req.Observacoes
	f.Produtos = produtos
	return nil
}

func fornecedorToResponse(f *model.Fornecedor) dto.FornecedorResponse {
	resp := dto.FornecedorResponse{
		ID:          f.ID.String(),
		NomeEmpresa: f.NomeEmpresa,
		NomeContato: f.NomeContato,
		CPFCNPJ:     f.CPFCNPJ,
		Telefone:    f.Telefone,
		Email:       f.Email,
		Endereco:    f.Endereco,
		Cidade:      f.Cidade,
		Estado:      f.Estado,
		Observacoes: f.Observacoes,
		Produtos:    make([]dto.OpcaoBusca, len(f.Produtos)),
	}
	for i, p := range f.Produtos {
		resp.Produtos[i] = dto.OpcaoBusca{ID: p.ID.String(), Text: p.Cod + " - " + p.Variedade}
	}
	return resp
}
