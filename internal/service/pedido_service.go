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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoService interface {
	Criar(ctx context.Context, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.Lista[dto.PedidoResponse], error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarPedidoRequest) (*dto.PedidoResponse, error)
	AlterarStatus(ctx context.Context, id uuid.UUID, status string) (*dto.PedidoResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
}

type pedidoService struct {
	repo     repository.PedidoRepository
	clientes repository.ClienteRepository
	estoque  estoque
}

func NewPedidoService(
	repo repository.PedidoRepository,
	lotes repository.LoteRepository,
	produtos repository.ProdutoRepository,
	movimentos repository.MovimentoEstoqueRepository,
	clientes repository.ClienteRepository,
	precos *infra.Cache,
) PedidoService {
	return &pedidoService{
		repo:     repo,
		clientes: clientes,
		estoque:  estoque{lotes: lotes, produtos: produtos, movimentos: movimentos, precos: precos},
	}
}

// cabecalhoPedido carries the order fields that do not depend on the batches.
type cabecalhoPedido struct {
	clienteID       *uuid.UUID
	valorFrete      decimal.Decimal
	descontoTotal   decimal.Decimal
	previsaoEntrega *time.Time
	observacoes     *string
}

// linhaPedido is one item against an already locked batch.
type linhaPedido struct {
	lote       *model.Lote
	quantidade int
	preco      decimal.Decimal
}

func (s *pedidoService) Criar(ctx context.Context, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error) {
	if len(req.Itens) == 0 {
		return nil, fmt.Errorf("%w: o pedido precisa de ao menos um item", domain.ErrInvalidInput)
	}
	cab, err := s.resolverCabecalho(ctx, req.ClienteID, req.ValorFrete, req.DescontoTotal, req.PrevisaoEntrega, req.Observacoes)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(req.Itens))
	for i, it := range req.Itens {
		if ids[i], err = uuid.Parse(it.LoteID); err != nil {
			return nil, fmt.Errorf("%w: item %d: lote_id inválido", domain.ErrInvalidInput, i+1)
		}
		if it.Quantidade <= 0 {
			return nil, fmt.Errorf("%w: item %d: quantidade deve ser maior que zero", domain.ErrInvalidInput, i+1)
		}
		if it.PrecoUnitario != nil && it.PrecoUnitario.IsNegative() {
			return nil, fmt.Errorf("%w: item %d: preço unitário inválido", domain.ErrInvalidInput, i+1)
		}
	}

	var pedido *model.Pedido
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		lotes, err := s.estoque.travarLotes(ctx, tx, ids)
		if err != nil {
			return err
		}
		linhas := make([]linhaPedido, len(req.Itens))
		for i, it := range req.Itens {
			l := lotes[ids[i]]
			preco := l.PrecoUnitario
			if it.PrecoUnitario != nil {
				preco = it.PrecoUnitario.Round(2)
			}
			linhas[i] = linhaPedido{lote: l, quantidade: it.Quantidade, preco: preco}
		}
		pedido, err = s.criarTx(ctx, tx, cab, linhas)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.estoque.invalidar(ctx, lotesDoPedido(pedido))
	resp := pedidoToResponse(pedido)
	return &resp, nil
}

// criarTx validates stock and the resulting total, then writes the order and
// decrements the batches. Callers hold the batch locks.
func (s *pedidoService) criarTx(ctx context.Context, tx *gorm.DB, cab cabecalhoPedido, linhas []linhaPedido) (*model.Pedido, error) {
	solicitado := make(map[uuid.UUID]int, len(linhas))
	lotes := make(map[uuid.UUID]*model.Lote, len(linhas))
	soma := decimal.Zero
	for _, ln := range linhas {
		solicitado[ln.lote.ID] += ln.quantidade
		lotes[ln.lote.ID] = ln.lote
		soma = soma.Add(ln.preco.Mul(decimal.NewFromInt(int64(ln.quantidade))).Round(2))
	}
	for id, qtd := range solicitado {
		if l := lotes[id]; qtd > l.Quantidade {
			return nil, insuficiente(l, qtd)
		}
	}
	if soma.Add(cab.valorFrete).Sub(cab.descontoTotal).IsNegative() {
		return nil, fmt.Errorf("%w: o desconto não pode exceder itens mais frete", domain.ErrInvalidInput)
	}

	numero, err := s.repo.NextNumero(ctx, tx)
	if err != nil {
		return nil, err
	}
	pedido := &model.Pedido{
		Numero:          numero,
		ClienteID:       cab.clienteID,
		Status:          model.PedidoPendente,
		PrevisaoEntrega: cab.previsaoEntrega,
		ValorFrete:      cab.valorFrete,
		DescontoTotal:   cab.descontoTotal,
		Observacoes:     cab.observacoes,
	}
	for _, ln := range linhas {
		pedido.Itens = append(pedido.Itens, model.ItemPedido{
			ProdutoID:     ln.lote.ProdutoID,
			LoteID:        ln.lote.ID,
			Quantidade:    ln.quantidade,
			PrecoUnitario: ln.preco,
			Subtotal:      ln.preco.Mul(decimal.NewFromInt(int64(ln.quantidade))).Round(2),
		})
	}
	if err := s.repo.Create(ctx, tx, pedido); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(lotes))
	for id := range lotes {
		ids = append(ids, id)
	}
	deltas := make([]delta, 0, len(ids))
	for _, id := range repository.SortIDs(ids) {
		deltas = append(deltas, delta{lote: lotes[id], quantidade: -solicitado[id]})
	}
	motivo := fmt.Sprintf("Pedido #%d", numero)
	if err := s.estoque.aplicar(ctx, tx, deltas, model.EstoquePedido, motivo, &pedido.ID); err != nil {
		return nil, err
	}
	if pedido.Total, err = s.repo.RecalcularTotal(ctx, tx, pedido.ID); err != nil {
		return nil, err
	}
	for i := range pedido.Itens {
		pedido.Itens[i].Lote = lotes[pedido.Itens[i].LoteID]
	}
	return pedido, nil
}

func (s *pedidoService) resolverCabecalho(ctx context.Context, clienteRaw *string, frete, desconto decimal.Decimal, previsao, obs *string) (cabecalhoPedido, error) {
	var cab cabecalhoPedido
	if frete.IsNegative() || desconto.IsNegative() {
		return cab, fmt.Errorf("%w: frete e desconto não podem ser negativos", domain.ErrInvalidInput)
	}
	cab.valorFrete, cab.descontoTotal, cab.observacoes = frete.Round(2), desconto.Round(2), obs
	if clienteRaw != nil && *clienteRaw != "" {
		id, err := uuid.Parse(*clienteRaw)
		if err != nil {
			return cab, fmt.Errorf("%w: cliente_id inválido", domain.ErrInvalidInput)
		}
		if _, err := s.clientes.FindByID(ctx, id); err != nil {
			return cab, err
		}
		cab.clienteID = &id
	}
	data, err := parseData(previsao, "previsao_entrega")
	if err != nil {
		return cab, err
	}
	cab.previsaoEntrega = data
	return cab, nil
}

func parseData(raw *string, campo string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DataLayout, *raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s deve estar no formato AAAA-MM-DD", domain.ErrInvalidInput, campo)
	}
	return &t, nil
}

func (s *pedidoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := pedidoToResponse(p)
	return &resp, nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.Lista[dto.PedidoResponse], error) {
	filter.Normalizar(10, 100)
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PedidoResponse, len(pedidos))
	for i := range pedidos {
		items[i] = pedidoToResponse(&pedidos[i])
	}
	return dto.NovaLista(items, total, filter.Paginacao), nil
}

// Atualizar changes freight, discount, delivery date and notes of an open
// order and recomputes its total.
func (s *pedidoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarPedidoRequest) (*dto.PedidoResponse, error) {
	previsao, err := parseData(req.PrevisaoEntrega, "previsao_entrega")
	if err != nil {
		return nil, err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.Status == model.PedidoEntregue || p.Status == model.PedidoCancelado {
			return fmt.Errorf("%w: pedido #%d está %s", domain.ErrConflict, p.Numero, p.Status)
		}
		if req.ValorFrete != nil {
			p.ValorFrete = req.ValorFrete.Round(2)
		}
		if req.DescontoTotal != nil {
			p.DescontoTotal = req.DescontoTotal.Round(2)
		}
		if p.ValorFrete.IsNegative() || p.DescontoTotal.IsNegative() {
			return fmt.Errorf("%w: frete e desconto não podem ser negativos", domain.ErrInvalidInput)
		}
		soma := decimal.Zero
		for _, it := range p.Itens {
			soma = soma.Add(it.Subtotal)
		}
		if soma.Add(p.ValorFrete).Sub(p.DescontoTotal).IsNegative() {
			return fmt.Errorf("%w: o desconto não pode exceder itens mais frete", domain.ErrInvalidInput)
		}
		if req.PrevisaoEntrega != nil {
			p.PrevisaoEntrega = previsao
		}
		if req.Observacoes != nil {
			p.Observacoes = req.Observacoes
		}
		if err := s.repo.Update(ctx, tx, p); err != nil {
			return err
		}
		_, err = s.repo.RecalcularTotal(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

// AlterarStatus follows model.PedidoTransicoes. Cancelling returns the stock.
func (s *pedidoService) AlterarStatus(ctx context.Context, id uuid.UUID, status string) (*dto.PedidoResponse, error) {
	var lotes map[uuid.UUID]*model.Lote
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !model.PodeTransitar(p.Status, status) {
			return fmt.Errorf("%w: transição de %s para %s não permitida", domain.ErrConflict, p.Status, status)
		}
		if status == model.PedidoCancelado {
			motivo := fmt.Sprintf("Cancelamento do pedido #%d", p.Numero)
			lotes, err = s.estoque.restaurar(ctx, tx, quantidadesPedido(p.Itens), model.EstoqueCancelamento, motivo, &p.ID)
			if err != nil {
				return err
			}
		}
		p.Status = status
		return s.repo.Update(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	s.estoque.invalidar(ctx, lotes)
	return s.ObterPorID(ctx, id)
}

// Excluir removes the order, returning stock unless it was already cancelled.
func (s *pedidoService) Excluir(ctx context.Context, id uuid.UUID) error {
	var lotes map[uuid.UUID]*model.Lote
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.Status != model.PedidoCancelado {
			motivo := fmt.Sprintf("Exclusão do pedido #%d", p.Numero)
			lotes, err = s.estoque.restaurar(ctx, tx, quantidadesPedido(p.Itens), model.EstoqueCancelamento, motivo, nil)
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
	return nil
}

func lotesDoPedido(p *model.Pedido) map[uuid.UUID]*model.Lote {
	out := make(map[uuid.UUID]*model.Lote, len(p.Itens))
	for _, it := range p.Itens {
		if it.Lote != nil {
			out[it.LoteID] = it.Lote
		}
	}
	return out
}

func quantidadesPedido(itens []model.ItemPedido) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(itens))
	for _, it := range itens {
		out[it.LoteID] += it.Quantidade
	}
	return out
}

func pedidoToResponse(p *model.Pedido) dto.PedidoResponse {
	resp := dto.PedidoResponse{
		ID:            p.ID.String(),
		Numero:        p.Numero,
		Status:        p.Status,
		ValorFrete:    p.ValorFrete,
		DescontoTotal: p.DescontoTotal,
		Total:         p.Total,
		Observacoes:   p.Observacoes,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		Itens:         make([]dto.ItemPedidoResponse, 0, len(p.Itens)),
	}
	if p.ClienteID != nil {
		cid := p.ClienteID.String()
		resp.ClienteID = &cid
	}
	if p.PrevisaoEntrega != nil {
		d := p.PrevisaoEntrega.Format(dto.DataLayout)
		resp.PrevisaoEntrega = &d
	}
	for _, it := range p.Itens {
		item := dto.ItemPedidoResponse{
			ID:            it.ID.String(),
			ProdutoID:     it.ProdutoID.String(),
			LoteID:        it.LoteID.String(),
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitario,
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
