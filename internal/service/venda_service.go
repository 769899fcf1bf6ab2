package service

import (
	"context"
	"fmt"
	"time"

	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/infra"
	"viveiro/internal/model"
	"viveiro/internal/repository"
	"viveiro/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaService interface {
	Finalizar(ctx context.Context, usuarioID *uuid.UUID, req dto.FinalizarVendaRequest) (*dto.FinalizarVendaResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	Anular(ctx context.Context, id uuid.UUID) error
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	Listar(ctx context.Context, filter dto.VendaFilter) (*dto.Lista[dto.VendaResponse], error)
	Exportar(ctx context.Context, filter dto.VendaFilter) ([]byte, error)
	Termo(ctx context.Context, id uuid.UUID) ([]byte, error)
	EnviarTermo(ctx context.Context, id uuid.UUID, email string) error
}

type vendaService struct {
	repo       repository.VendaRepository
	clientes   repository.ClienteRepository
	estoque    estoque
	dispatcher *worker.Dispatcher
	empresa    infra.Empresa
}

func NewVendaService(
	repo repository.VendaRepository,
	lotes repository.LoteRepository,
	produtos repository.ProdutoRepository,
	movimentos repository.MovimentoEstoqueRepository,
	clientes repository.ClienteRepository,
	precos *infra.Cache,
	dispatcher *worker.Dispatcher,
	empresa infra.Empresa,
) VendaService {
	return &vendaService{
		repo:       repo,
		clientes:   clientes,
		estoque:    estoque{lotes: lotes, produtos: produtos, movimentos: movimentos, precos: precos},
		dispatcher: dispatcher,
		empresa:    empresa,
	}
}

type itemResolvido struct {
	loteID     uuid.UUID
	quantidade int
	preco      decimal.Decimal
}

// ── Finalizar ────────────────────────────────────────────────────────────────
// Single transaction:
//   1. Validate and parse every item (no DB access)
//   2. Lock the batches in id order; check merged quantities against stock
//   3. Create venda + itens, decrement batches, audit, recompute total
//   4. Lock the touched products and recompute their stock cache
// Nothing is written before step 2 has passed for every item.

func (s *vendaService) Finalizar(ctx context.Context, usuarioID *uuid.UUID, req dto.FinalizarVendaRequest) (*dto.FinalizarVendaResponse, error) {
	itens, err := resolverItens(req.Itens)
	if err != nil {
		return nil, err
	}
	clienteID, err := s.resolverCliente(ctx, req.ClienteID)
	if err != nil {
		return nil, err
	}

	var venda model.Venda
	var lotes map[uuid.UUID]*model.Lote
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ids := make([]uuid.UUID, len(itens))
		solicitado := make(map[uuid.UUID]int, len(itens))
		for i, it := range itens {
			ids[i] = it.loteID
			solicitado[it.loteID] += it.quantidade
		}

		lotes, err = s.estoque.travarLotes(ctx, tx, ids)
		if err != nil {
			return err
		}
		for id, qtd := range solicitado {
			if l := lotes[id]; qtd > l.Quantidade {
				return insuficiente(l, qtd)
			}
		}

		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		venda = model.Venda{
			Numero:         numero,
			UsuarioID:      usuarioID,
			ClienteID:      clienteID,
			Status:         model.VendaFinalizada,
			FormaPagamento: req.FormaPagamento,
			Observacoes:    req.Observacoes,
			DataVenda:      time.Now(),
		}
		for _, it := range itens {
			venda.Itens = append(venda.Itens, model.ItemVenda{
				ProdutoID:            lotes[it.loteID].ProdutoID,
				LoteID:               it.loteID,
				Quantidade:           it.quantidade,
				PrecoUnitarioVendido: it.preco,
				Subtotal:             it.preco.Mul(decimal.NewFromInt(int64(it.quantidade))).Round(2),
			})
		}
		if err := s.repo.Create(ctx, tx, &venda); err != nil {
			return err
		}

		deltas := make([]delta, 0, len(solicitado))
		for _, id := range repository.SortIDs(ids) {
			deltas = append(deltas, delta{lote: lotes[id], quantidade: -solicitado[id]})
		}
		motivo := fmt.Sprintf("Venda #%d", numero)
		if err := s.estoque.aplicar(ctx, tx, deltas, model.EstoqueVenda, motivo, &venda.ID); err != nil {
			return err
		}

		venda.Total, err = s.repo.RecalcularTotal(ctx, tx, venda.ID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	s.estoque.invalidar(ctx, lotes)

	for i := range venda.Itens {
		venda.Itens[i].Lote = lotes[venda.Itens[i].LoteID]
	}
	resp := vendaToResponse(&venda)
	return &dto.FinalizarVendaResponse{
		Success: true,
		Message: fmt.Sprintf("Venda #%d finalizada com sucesso", venda.Numero),
		VendaID: venda.ID.String(),
		Venda:   &resp,
	}, nil
}

func resolverItens(req []dto.ItemVendaRequest) ([]itemResolvido, error) {
	if len(req) == 0 {
		return nil, fmt.Errorf("%w: a venda precisa de ao menos um item", domain.ErrInvalidInput)
	}
	out := make([]itemResolvido, 0, len(req))
	for i, it := range req {
		id, err := uuid.Parse(it.LoteID)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: lote_id inválido", domain.ErrInvalidInput, i+1)
		}
		if it.Quantidade <= 0 {
			return nil, fmt.Errorf("%w: item %d: quantidade deve ser maior que zero", domain.ErrInvalidInput, i+1)
		}
		if it.PrecoUnitario == nil || it.PrecoUnitario.IsNegative() {
			return nil, fmt.Errorf("%w: item %d: preço unitário inválido", domain.ErrInvalidInput, i+1)
		}
		out = append(out, itemResolvido{loteID: id, quantidade: it.Quantidade, preco: it.PrecoUnitario.Round(2)})
	}
	return out, nil
}

func (s *vendaService) resolverCliente(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: cliente_id inválido", domain.ErrInvalidInput)
	}
	if _, err := s.clientes.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return &id, nil
}

// ── Excluir / Anular ─────────────────────────────────────────────────────────

// Excluir deletes the sale and its items, returning quantities to the batches.
// A cancelled sale already gave its stock back, so only the rows go.
func (s *vendaService) Excluir(ctx context.Context, id uuid.UUID) error {
	var lotes map[uuid.UUID]*model.Lote
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venda, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if venda.Status != model.VendaCancelada {
			motivo := fmt.Sprintf("Exclusão da venda #%d", venda.Numero)
			lotes, err = s.estoque.restaurar(ctx, tx, quantidadesPorLote(venda.Itens), model.EstoqueExclusaoVenda, motivo, nil)
			if err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}
	s.estoque.invalidar(ctx, lotes)
	log.Info().Str("venda_id", id.String()).Msg("venda excluída")
	return nil
}

// Anular restores stock and keeps the sale as cancelada, outside the cash balance.
func (s *vendaService) Anular(ctx context.Context, id uuid.UUID) error {
	var lotes map[uuid.UUID]*model.Lote
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venda, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if venda.Status == model.VendaCancelada {
			return fmt.Errorf("%w: a venda #%d já está cancelada", domain.ErrConflict, venda.Numero)
		}
		motivo := fmt.Sprintf("Cancelamento da venda #%d", venda.Numero)
		lotes, err = s.estoque.restaurar(ctx, tx, quantidadesPorLote(venda.Itens), model.EstoqueCancelamento, motivo, &venda.ID)
		if err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, tx, id, model.VendaCancelada)
	})
	if err != nil {
		return err
	}
	s.estoque.invalidar(ctx, lotes)
	return nil
}

func quantidadesPorLote(itens []model.ItemVenda) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(itens))
	for _, it := range itens {
		out[it.LoteID] += it.Quantidade
	}
	return out
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *vendaService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := vendaToResponse(v)
	return &resp, nil
}

// Listar returns newest-first sales. Dates are inclusive calendar days.
func (s *vendaService) Listar(ctx context.Context, filter dto.VendaFilter) (*dto.Lista[dto.VendaResponse], error) {
	filter.Normalizar(10, 100)
	q, err := vendaQuery(filter)
	if err != nil {
		return nil, err
	}
	q.Offset, q.Limit = filter.Offset(), filter.PageSize

	vendas, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VendaResponse, len(vendas))
	for i := range vendas {
		items[i] = vendaToResponse(&vendas[i])
	}
	return dto.NovaLista(items, total, filter.Paginacao), nil
}

func vendaQuery(f dto.VendaFilter) (repository.VendaQuery, error) {
	var q repository.VendaQuery
	if f.StartDate != "" {
		t, err := time.ParseInLocation(dto.DataLayout, f.StartDate, time.Local)
		if err != nil {
			return q, fmt.Errorf("%w: start_date deve estar no formato AAAA-MM-DD", domain.ErrInvalidInput)
		}
		q.Inicio = &t
	}
	if f.EndDate != "" {
		t, err := time.ParseInLocation(dto.DataLayout, f.EndDate, time.Local)
		if err != nil {
			return q, fmt.Errorf("%w: end_date deve estar no formato AAAA-MM-DD", domain.ErrInvalidInput)
		}
		fim := t.AddDate(0, 0, 1)
		q.Fim = &fim
	}
	if f.Status != "" && f.Status != model.VendaFinalizada && f.Status != model.VendaCancelada {
		return q, fmt.Errorf("%w: status deve ser finalizada ou cancelada", domain.ErrInvalidInput)
	}
	q.Numero, q.Status = f.Numero, f.Status
	return q, nil
}

func (s *vendaService) Exportar(ctx context.Context, filter dto.VendaFilter) ([]byte, error) {
	q, err := vendaQuery(filter)
	if err != nil {
		return nil, err
	}
	vendas, _, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return planilhaVendas(vendas)
}

// ── Termo de conformidade ────────────────────────────────────────────────────

func (s *vendaService) Termo(ctx context.Context, id uuid.UUID) ([]byte, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return infra.RenderTermoConformidade(s.empresa, v)
}

// EnviarTermo queues the term for e-mail delivery; the worker renders it.
func (s *vendaService) EnviarTermo(ctx context.Context, id uuid.UUID, email string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if s.dispatcher == nil {
		return fmt.Errorf("%w: fila de e-mail", domain.ErrUnavailable)
	}
	return s.dispatcher.EnqueueTermoEmail(ctx, worker.TermoEmailPayload{VendaID: id.String(), Email: email})
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func vendaToResponse(v *model.Venda) dto.VendaResponse {
	resp := dto.VendaResponse{
		ID:             v.ID.String(),
		Numero:         v.Numero,
		Status:         v.Status,
		Total:          v.Total,
		FormaPagamento: v.FormaPagamento,
		Observacoes:    v.Observacoes,
		DataVenda:      v.DataVenda.Format(time.RFC3339),
		Itens:          make([]dto.ItemVendaResponse, 0, len(v.Itens)),
	}
	if v.ClienteID != nil {
		cid := v.ClienteID.String()
		resp.ClienteID = &cid
	}
	if v.Cliente != nil {
		resp.Cliente = v.Cliente.Nome()
	}
	for _, it := range v.Itens {
		item := dto.ItemVendaResponse{
			ID:            it.ID.String(),
			ProdutoID:     it.ProdutoID.String(),
			LoteID:        it.LoteID.String(),
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitarioVendido,
			Subtotal:      it.Subtotal,
		}
		if it.Produto != nil {
			item.Produto = it.Produto.Variedade
		}
		if it.Lote != nil {
			item.Lote = it.Lote.Codigo
		}
		resp.Itens = append(resp.Itens, item)
	}
	return resp
}
