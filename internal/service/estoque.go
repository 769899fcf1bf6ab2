package service

import (
	"context"
	"fmt"

	"viveiro/internal/domain"
	"viveiro/internal/infra"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// estoque bundles the batch-quantity discipline shared by sales, orders, the
// cart checkout and batch maintenance: lock batches in id order, apply deltas,
// audit them, then lock and recompute the owning products.
type estoque struct {
	lotes      repository.LoteRepository
	produtos   repository.ProdutoRepository
	movimentos repository.MovimentoEstoqueRepository
	precos     *infra.Cache
}

// delta is a signed change to one locked batch.
type delta struct {
	lote       *model.Lote
	quantidade int
}

// travarLotes locks ids in sorted order. A missing id is ErrNotFound.
func (e estoque) travarLotes(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*model.Lote, error) {
	ordenados := repository.SortIDs(ids)
	lotes, err := e.lotes.LockByIDs(ctx, tx, ordenados)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*model.Lote, len(lotes))
	for i := range lotes {
		out[lotes[i].ID] = &lotes[i]
	}
	for _, id := range ordenados {
		if _, ok := out[id]; !ok {
			return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
		}
	}
	return out, nil
}

// aplicar writes the deltas in the given order, one audit row each, and then
// recomputes stock for every product touched (plus extra product ids).
func (e estoque) aplicar(ctx context.Context, tx *gorm.DB, deltas []delta, tipo, motivo string, ref *uuid.UUID, extra ...uuid.UUID) error {
	movs := make([]model.MovimentoEstoque, 0, len(deltas))
	produtoIDs := append([]uuid.UUID(nil), extra...)
	for _, d := range deltas {
		produtoIDs = append(produtoIDs, d.lote.ProdutoID)
		if d.quantidade == 0 {
			continue
		}
		anterior := d.lote.Quantidade
		if err := e.lotes.AjustarQuantidade(ctx, tx, d.lote.ID, d.quantidade); err != nil {
			return err
		}
		d.lote.Quantidade = anterior + d.quantidade
		movs = append(movs, model.MovimentoEstoque{
			LoteID:             d.lote.ID,
			ProdutoID:          d.lote.ProdutoID,
			Tipo:               tipo,
			Quantidade:         d.quantidade,
			QuantidadeAnterior: anterior,
			QuantidadeNova:     d.lote.Quantidade,
			Motivo:             motivo,
			ReferenciaID:       ref,
		})
	}
	if len(movs) > 0 {
		if err := e.movimentos.Create(ctx, tx, movs); err != nil {
			return err
		}
	}
	return e.recalcular(ctx, tx, produtoIDs)
}

// recalcular locks the products in id order and refreshes their stock cache.
func (e estoque) recalcular(ctx context.Context, tx *gorm.DB, produtoIDs []uuid.UUID) error {
	ids := repository.SortIDs(produtoIDs)
	if len(ids) == 0 {
		return nil
	}
	if _, err := e.produtos.LockByIDs(ctx, tx, ids); err != nil {
		return err
	}
	return e.produtos.RecalcularEstoque(ctx, tx, ids)
}

// invalidar drops cached price lookups for the given batch codes.
func (e estoque) invalidar(ctx context.Context, lotes map[uuid.UUID]*model.Lote) {
	codigos := make([]string, 0, len(lotes))
	for _, l := range lotes {
		codigos = append(codigos, l.Codigo)
	}
	e.precos.Del(ctx, codigos...)
}

// restaurar returns quantities to their batches in id order.
func (e estoque) restaurar(ctx context.Context, tx *gorm.DB, qtds map[uuid.UUID]int, tipo, motivo string, ref *uuid.UUID) (map[uuid.UUID]*model.Lote, error) {
	ids := make([]uuid.UUID, 0, len(qtds))
	for id := range qtds {
		ids = append(ids, id)
	}
	lotes, err := e.travarLotes(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	deltas := make([]delta, 0, len(lotes))
	for _, id := range repository.SortIDs(ids) {
		deltas = append(deltas, delta{lote: lotes[id], quantidade: qtds[id]})
	}
	return lotes, e.aplicar(ctx, tx, deltas, tipo, motivo, ref)
}

func insuficiente(l *model.Lote, pedido int) error {
	return fmt.Errorf("%w: lote %s tem %d disponíveis, solicitado %d",
		domain.ErrInsufficientStock, l.Codigo, l.Quantidade, pedido)
}
