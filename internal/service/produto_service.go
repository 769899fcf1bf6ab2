package service

import (
	"context"
	"fmt"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/infra"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProdutoService defines the business logic contract for products.
type ProdutoService interface {
	Criar(ctx context.Context, req dto.ProdutoRequest) (*dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.Lista[dto.ProdutoResponse], error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.ProdutoRequest) (*dto.ProdutoResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	Movimentos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimentoEstoqueResponse, error)
}

type produtoService struct {
	repo       repository.ProdutoRepository
	lotes      repository.LoteRepository
	fiscal     repository.FiscalRepository
	movimentos repository.MovimentoEstoqueRepository
	precos     *infra.Cache
}

func NewProdutoService(
	repo repository.ProdutoRepository,
	lotes repository.LoteRepository,
	fiscal repository.FiscalRepository,
	movimentos repository.MovimentoEstoqueRepository,
	precos *infra.Cache,
) ProdutoService {
	return &produtoService{repo: repo, lotes: lotes, fiscal: fiscal, movimentos: movimentos, precos: precos}
}

func (s *produtoService) Criar(ctx context.Context, req dto.ProdutoRequest) (*dto.ProdutoResponse, error) {
	p := &model.Produto{Status: model.StatusSemEstoque}
	if err := s.aplicarRequest(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, p.ID)
}

func (s *produtoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.Lista[dto.ProdutoResponse], error) {
	filter.Normalizar(10, 100)
	produtos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProdutoResponse, len(produtos))
	for i := range produtos {
		items[i] = produtoToResponse(&produtos[i])
	}
	return dto.NovaLista(items, total, filter.Paginacao), nil
}

// Atualizar rewrites the editable fields under the product lock; stock and
// status are recomputed from the batches in the same transaction.
func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.ProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.aplicarRequest(ctx, p, req); err != nil {
		return nil, err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.LockByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, p); err != nil {
			return err
		}
		return s.repo.RecalcularEstoque(ctx, tx, []uuid.UUID{id})
	})
	if err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

// Excluir refuses products still referenced by sales or orders. Batches go with the product.
func (s *produtoService) Excluir(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountReferencias(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("%w: produto possui %d itens de venda ou pedido vinculados", domain.ErrConflict, refs)
	}
	lotes, _, err := s.lotes.List(ctx, dto.LoteFilter{ProdutoID: id.String(), Paginacao: dto.Paginacao{Page: 1, PageSize: 1000}})
	if err != nil {
		return err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.LockByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	codigos := make([]string, len(lotes))
	for i, l := range lotes {
		codigos[i] = l.Codigo
	}
	s.precos.Del(ctx, codigos...)
	return nil
}

func (s *produtoService) Movimentos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimentoEstoqueResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	movs, err := s.movimentos.ListByProduto(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimentoEstoqueResponse, len(movs))
	for i, m := range movs {
		out[i] = dto.MovimentoEstoqueResponse{
			ID:                 m.ID.String(),
			LoteID:             m.LoteID.String(),
			Tipo:               m.Tipo,
			Quantidade:         m.Quantidade,
			QuantidadeAnterior: m.QuantidadeAnterior,
			QuantidadeNova:     m.QuantidadeNova,
			Motivo:             m.Motivo,
			CreatedAt:          m.CreatedAt.Format(dto.DataHoraLayout),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			out[i].ReferenciaID = &ref
		}
	}
	return out, nil
}

func (s *produtoService) aplicarRequest(ctx context.Context, p *model.Produto, req dto.ProdutoRequest) error {
	if req.Preco.IsNegative() {
		return fmt.Errorf("%w: preço não pode ser negativo", domain.ErrInvalidInput)
	}
	ncmID, err := parseOptionalID(req.NCMID, "ncm_id")
	if err != nil {
		return err
	}
	cfopID, err := parseOptionalID(req.CFOPID, "cfop_id")
	if err != nil {
		return err
	}
	if ncmID != nil {
		if _, err := s.fiscal.FindNCMByID(ctx, *ncmID); err != nil {
			return err
		}
	}
	if cfopID != nil {
		if _, err := s.fiscal.FindCFOPByID(ctx, *cfopID); err != nil {
			return err
		}
	}

	p.Cod = req.Cod
	p.Tipo = req.Tipo
	p.Variedade = req.Variedade
	p.Especie = req.Especie
	p.CodEspecie = req.CodEspecie
	p.CultivarInfo = req.CultivarInfo
	p.DescricaoCatalogo = req.DescricaoCatalogo
	p.Unidade = req.Unidade
	p.QtdUnid = req.QtdUnid
	if p.QtdUnid == "" {
		p.QtdUnid = "1UN"
	}
	p.Preco = req.Preco.Round(2)
	p.NCMID, p.CFOPID = ncmID, cfopID
	p.NCM, p.CFOP = nil, nil
	p.ImagemURL = req.ImagemURL
	return nil
}

func parseOptionalID(raw *string, campo string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s inválido", domain.ErrInvalidInput, campo)
	}
	return &id, nil
}

func produtoToResponse(p *model.Produto) dto.ProdutoResponse {
	resp := dto.ProdutoResponse{
		ID:                p.ID.String(),
		Cod:               p.Cod,
		Tipo:              p.Tipo,
		Variedade:         p.Variedade,
		Especie:           p.Especie,
		CodEspecie:        p.CodEspecie,
		CultivarInfo:      p.CultivarInfo,
		DescricaoCatalogo: p.DescricaoCatalogo,
		Unidade:           p.Unidade,
		QtdUnid:           p.QtdUnid,
		Estoque:           p.Estoque,
		Preco:             p.Preco,
		Status:            p.Status,
		ValorTotal:        p.ValorTotal(),
		ImagemURL:         p.ImagemURL,
	}
	if p.NCM != nil {
		ncm := p.NCM.Codigo + " - " + p.NCM.Descricao
		resp.NCM = &ncm
	}
	if p.CFOP != nil {
		cfop := p.CFOP.Codigo + " - " + p.CFOP.Descricao
		resp.CFOP = &cfop
	}
	return resp
}
