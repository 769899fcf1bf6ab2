package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/infra"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Rotulo is the fixed text printed on every batch label.
type Rotulo struct {
	Sigla   string
	Renasem string
}

type LoteService interface {
	Criar(ctx context.Context, req dto.LoteRequest) (*dto.LoteResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error)
	Listar(ctx context.Context, filter dto.LoteFilter) (*dto.Lista[dto.LoteResponse], error)
	Buscar(ctx context.Context, q string) ([]dto.LoteResponse, error)
	// PorCodigo is the cached price lookup used by the checkout screen.
	PorCodigo(ctx context.Context, codigo string) (*dto.LoteResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.LoteRequest) (*dto.LoteResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	Etiqueta(ctx context.Context, id uuid.UUID, copias int) ([]byte, error)
}

type loteService struct {
	repo       repository.LoteRepository
	produtos   repository.ProdutoRepository
	produtores repository.ProdutorRepository
	estoque    estoque
	rotulo     Rotulo
}

func NewLoteService(
	repo repository.LoteRepository,
	produtos repository.ProdutoRepository,
	movimentos repository.MovimentoEstoqueRepository,
	produtores repository.ProdutorRepository,
	precos *infra.Cache,
	rotulo Rotulo,
) LoteService {
	return &loteService{
		repo:       repo,
		produtos:   produtos,
		produtores: produtores,
		estoque:    estoque{lotes: repo, produtos: produtos, movimentos: movimentos, precos: precos},
		rotulo:     rotulo,
	}
}

const limiteBuscaLotes = 20

// Criar inserts the batch empty and then books the initial quantity through
// the audited adjustment path, so the first MovimentoEstoque row exists.
func (s *loteService) Criar(ctx context.Context, req dto.LoteRequest) (*dto.LoteResponse, error) {
	produtoID, data, err := parseLoteRequest(req)
	if err != nil {
		return nil, err
	}
	produto, err := s.produtos.FindByID(ctx, produtoID)
	if err != nil {
		return nil, err
	}
	produtorID, err := s.resolverProdutor(ctx, req.ProdutorID)
	if err != nil {
		return nil, err
	}

	lote := &model.Lote{
		Codigo:        model.CodigoLote(produto.Cod, data),
		ProdutoID:     produtoID,
		DataSemeadura: data,
		PrecoUnitario: produto.Preco,
		ProdutorID:    produtorID,
		Observacoes:   req.Observacoes,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, lote); err != nil {
			return err
		}
		d := []delta{{lote: lote, quantidade: req.Quantidade}}
		return s.estoque.aplicar(ctx, tx, d, model.EstoqueAjuste, "Criação do lote", nil)
	})
	if err != nil {
		return nil, err
	}
	lote.Produto = produto
	resp := loteToResponse(lote)
	return &resp, nil
}

func (s *loteService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := loteToResponse(l)
	return &resp, nil
}

func (s *loteService) Listar(ctx context.Context, filter dto.LoteFilter) (*dto.Lista[dto.LoteResponse], error) {
	filter.Normalizar(10, 100)
	lotes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LoteResponse, len(lotes))
	for i := range lotes {
		items[i] = loteToResponse(&lotes[i])
	}
	return dto.NovaLista(items, total, filter.Paginacao), nil
}

func (s *loteService) Buscar(ctx context.Context, q string) ([]dto.LoteResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dto.LoteResponse{}, nil
	}
	lotes, err := s.repo.Search(ctx, q, limiteBuscaLotes)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LoteResponse, len(lotes))
	for i := range lotes {
		out[i] = loteToResponse(&lotes[i])
	}
	return out, nil
}

func (s *loteService) PorCodigo(ctx context.Context, codigo string) (*dto.LoteResponse, error) {
	var cached dto.LoteResponse
	if s.estoque.precos.Get(ctx, codigo, &cached) {
		return &cached, nil
	}
	l, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	resp := loteToResponse(l)
	s.estoque.precos.Set(ctx, codigo, resp)
	return &resp, nil
}

// Atualizar keeps the batch code. Moving the batch to another product copies
// that product's price; quantity changes are audited as adjustments and both
// the old and new products are recomputed.
func (s *loteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.LoteRequest) (*dto.LoteResponse, error) {
	produtoID, data, err := parseLoteRequest(req)
	if err != nil {
		return nil, err
	}
	produtorID, err := s.resolverProdutor(ctx, req.ProdutorID)
	if err != nil {
		return nil, err
	}

	var lote *model.Lote
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		lotes, err := s.estoque.travarLotes(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		lote = lotes[id]
		anterior := lote.ProdutoID

		if produtoID != anterior {
			novo, err := s.produtos.FindByID(ctx, produtoID)
			if err != nil {
				return err
			}
			lote.ProdutoID = produtoID
			lote.PrecoUnitario = novo.Preco
		}
		lote.DataSemeadura = data
		lote.ProdutorID = produtorID
		lote.Observacoes = req.Observacoes
		if err := s.repo.Update(ctx, tx, lote); err != nil {
			return err
		}

		d := []delta{{lote: lote, quantidade: req.Quantidade - lote.Quantidade}}
		return s.estoque.aplicar(ctx, tx, d, model.EstoqueAjuste, "Ajuste manual do lote", nil, anterior)
	})
	if err != nil {
		return nil, err
	}
	s.estoque.precos.Del(ctx, lote.Codigo)
	return s.ObterPorID(ctx, id)
}

// Excluir refuses batches referenced by sale or order items. References are
// counted under the batch lock, so no sale can slip in before the delete.
func (s *loteService) Excluir(ctx context.Context, id uuid.UUID) error {
	var lotes map[uuid.UUID]*model.Lote
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		lotes, err = s.estoque.travarLotes(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		refs, err := s.repo.CountReferencias(ctx, tx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("%w: lote possui %d itens de venda ou pedido vinculados", domain.ErrConflict, refs)
		}
		if err := s.repo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.estoque.recalcular(ctx, tx, []uuid.UUID{lotes[id].ProdutoID})
	})
	if err != nil {
		return err
	}
	s.estoque.invalidar(ctx, lotes)
	return nil
}

// Etiqueta renders copias pages of the 50×15 mm batch label (1 to MaxCopiasEtiqueta).
func (s *loteService) Etiqueta(ctx context.Context, id uuid.UUID, copias int) ([]byte, error) {
	if copias < 1 || copias > infra.MaxCopiasEtiqueta {
		return nil, fmt.Errorf("%w: quantidade de etiquetas deve estar entre 1 e %d", domain.ErrInvalidInput, infra.MaxCopiasEtiqueta)
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	variedade := ""
	if l.Produto != nil {
		variedade = l.Produto.Variedade
	}
	renasem := renasemDoProdutor(ctx, s.produtores, l.ProdutorID, s.rotulo.Renasem)
	return infra.RenderEtiquetas(s.rotulo.Sigla, renasem, []infra.DadosEtiqueta{
		{Codigo: l.Codigo, Variedade: variedade, Copias: copias},
	})
}

// resolverProdutor parses and checks an optional producer id.
func (s *loteService) resolverProdutor(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: produtor_id inválido", domain.ErrInvalidInput)
	}
	if _, err := s.produtores.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return &id, nil
}

// renasemDoProdutor returns the producer's RENASEM when the batch has a producer
// that declares one, padrao otherwise. Lookup failures fall back to padrao.
func renasemDoProdutor(ctx context.Context, produtores repository.ProdutorRepository, produtorID *uuid.UUID, padrao string) string {
	if produtorID == nil || produtores == nil {
		return padrao
	}
	p, err := produtores.FindByID(ctx, *produtorID)
	if err != nil {
		log.Warn().Err(err).Str("produtor_id", produtorID.String()).Msg("etiqueta: produtor não encontrado, usando RENASEM padrão")
		return padrao
	}
	if p.Renasem == nil || strings.TrimSpace(*p.Renasem) == "" {
		return padrao
	}
	return *p.Renasem
}

func parseLoteRequest(req dto.LoteRequest) (uuid.UUID, time.Time, error) {
	produtoID, err := uuid.Parse(req.ProdutoID)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w: produto_id inválido", domain.ErrInvalidInput)
	}
	data, err := time.Parse(dto.DataLayout, req.DataSemeadura)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w: data_semeadura deve estar no formato AAAA-MM-DD", domain.ErrInvalidInput)
	}
	if req.Quantidade < 0 {
		return uuid.Nil, time.Time{}, fmt.Errorf("%w: quantidade não pode ser negativa", domain.ErrInvalidInput)
	}
	return produtoID, data, nil
}

func loteToResponse(l *model.Lote) dto.LoteResponse {
	resp := dto.LoteResponse{
		ID:            l.ID.String(),
		Codigo:        l.Codigo,
		ProdutoID:     l.ProdutoID.String(),
		DataSemeadura: l.DataSemeadura.Format(dto.DataLayout),
		Quantidade:    l.Quantidade,
		PrecoUnitario: l.PrecoUnitario,
		Observacoes:   l.Observacoes,
	}
	if l.ProdutorID != nil {
		id := l.ProdutorID.String()
		resp.ProdutorID = &id
	}
	if l.Produto != nil {
		resp.Produto = l.Produto.Variedade
		resp.Tipo = l.Produto.Tipo
	}
	return resp
}
