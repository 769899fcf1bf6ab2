package service

import (
	"context"
	"fmt"
	"strings"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/infra"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
)

type EtiquetaService interface {
	Criar(ctx context.Context, req dto.EtiquetaRequest) (*dto.EtiquetaResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.EtiquetaResponse, error)
	Listar(ctx context.Context, q string, p dto.Paginacao) (*dto.Lista[dto.EtiquetaResponse], error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.EtiquetaRequest) (*dto.EtiquetaResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	// PDF prints Quantidade copies of the stored label.
	PDF(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type etiquetaService struct {
	repo       repository.EtiquetaRepository
	lotes      repository.LoteRepository
	produtores repository.ProdutorRepository
	rotulo     Rotulo
}

func NewEtiquetaService(
	repo repository.EtiquetaRepository,
	lotes repository.LoteRepository,
	produtores repository.ProdutorRepository,
	rotulo Rotulo,
) EtiquetaService {
	return &etiquetaService{repo: repo, lotes: lotes, produtores: produtores, rotulo: rotulo}
}

func (s *etiquetaService) Criar(ctx context.Context, req dto.EtiquetaRequest) (*dto.EtiquetaResponse, error) {
	e := &model.Etiqueta{}
	if err := s.aplicarRequest(ctx, e, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	resp := etiquetaToResponse(e)
	return &resp, nil
}

func (s *etiquetaService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.EtiquetaResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := etiquetaToResponse(e)
	return &resp, nil
}

func (s *etiquetaService) Listar(ctx context.Context, q string, p dto.Paginacao) (*dto.Lista[dto.EtiquetaResponse], error) {
	p.Normalizar(10, 100)
	es, total, err := s.repo.List(ctx, q, p.Offset(), p.PageSize)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EtiquetaResponse, len(es))
	for i := range es {
		items[i] = etiquetaToResponse(&es[i])
	}
	return dto.NovaLista(items, total, p), nil
}

func (s *etiquetaService) Atualizar(ctx context.Context, id uuid.UUID, req dto.EtiquetaRequest) (*dto.EtiquetaResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.aplicarRequest(ctx, e, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	resp := etiquetaToResponse(e)
	return &resp, nil
}

func (s *etiquetaService) Excluir(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *etiquetaService) PDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	copias := e.Quantidade
	if copias < 1 {
		copias = 1
	}
	renasem := s.rotulo.Renasem
	if e.LoteID != nil {
		if l, err := s.lotes.FindByID(ctx, *e.LoteID); err == nil {
			renasem = renasemDoProdutor(ctx, s.produtores, l.ProdutorID, renasem)
		}
	}
	return infra.RenderEtiquetas(s.rotulo.Sigla, renasem, []infra.DadosEtiqueta{
		{Codigo: e.CodigoLote, Variedade: e.VariedadeProduto, Copias: copias},
	})
}

// aplicarRequest copies code, variety and product from the batch when lote_id
// is given; otherwise the typed code and variety are required.
func (s *etiquetaService) aplicarRequest(ctx context.Context, e *model.Etiqueta, req dto.EtiquetaRequest) error {
	loteID, err := parseOptionalID(req.LoteID, "lote_id")
	if err != nil {
		return err
	}

	e.LoteID, e.ProdutoID = loteID, nil
	e.CodigoLote = strings.TrimSpace(req.CodigoLote)
	e.VariedadeProduto = strings.TrimSpace(req.VariedadeProduto)
	if loteID != nil {
		l, err := s.lotes.FindByID(ctx, *loteID)
		if err != nil {
			return err
		}
		produtoID := l.ProdutoID
		e.ProdutoID = &produtoID
		e.CodigoLote = l.Codigo
		if l.Produto != nil {
			e.VariedadeProduto = l.Produto.Variedade
		}
	}
	if e.CodigoLote == "" {
		return fmt.Errorf("%w: informe lote_id ou codigo_lote", domain.ErrInvalidInput)
	}

	e.Quantidade = req.Quantidade
	if e.Quantidade < 1 {
		e.Quantidade = 1
	}
	if e.Quantidade > infra.MaxCopiasEtiqueta {
		return fmt.Errorf("%w: quantidade deve estar entre 1 e %d", domain.ErrInvalidInput, infra.MaxCopiasEtiqueta)
	}
	e.NomeCliente = vazioNil(req.NomeCliente)
	return nil
}

func etiquetaToResponse(e *model.Etiqueta) dto.EtiquetaResponse {
	resp := dto.EtiquetaResponse{
		ID:               e.ID.String(),
		CodigoLote:       e.CodigoLote,
		VariedadeProduto: e.VariedadeProduto,
		Quantidade:       e.Quantidade,
		NomeCliente:      e.NomeCliente,
		CreatedAt:        e.CreatedAt.Format(dto.DataHoraLayout),
	}
	if e.LoteID != nil {
		id := e.LoteID.String()
		resp.LoteID = &id
	}
	if e.ProdutoID != nil {
		id := e.ProdutoID.String()
		resp.ProdutoID = &id
	}
	return resp
}
