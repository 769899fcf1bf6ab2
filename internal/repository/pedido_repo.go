package repository

import (
	"context"

	"viveiro/internal/dto"
	"viveiro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Pedido, error)
	Update(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	// RecalcularTotal stores and returns Σ subtotal + valor_frete − desconto_total.
	RecalcularTotal(ctx context.Context, tx *gorm.DB, id uuid.UUID) (decimal.Decimal, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return conn(r.db, tx).WithContext(ctx).Omit("Cliente", "Itens.Produto", "Itens.Lote").Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Itens.Produto").Preload("Itens.Lote").Preload("Cliente").
		First(&p, "id = ?", id).Error
	return &p, translate(err, "pedido")
}

func (r *pedidoRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Clauses(forUpdate).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "pedido")
	}
	if err := db.Where("pedido_id = ?", id).Find(&p.Itens).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return conn(r.db, tx).WithContext(ctx).Model(p).
		Select("status", "previsao_entrega", "valor_frete", "desconto_total", "observacoes").
		Updates(p).Error
}

func (r *pedidoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("pedido_id = ?", id).Delete(&model.ItemPedido{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Pedido{}, "id = ?", id).Error
}

func (r *pedidoRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var n int
	err := conn(r.db, tx).WithContext(ctx).Raw("SELECT nextval('pedidos_numero_seq')").Scan(&n).Error
	return n, err
}

func (r *pedidoRepo) RecalcularTotal(ctx context.Context, tx *gorm.DB, id uuid.UUID) (decimal.Decimal, error) {
	var row somaRow
	err := conn(r.db, tx).WithContext(ctx).Raw(`
		UPDATE pedidos
		   SET total = COALESCE((SELECT SUM(subtotal) FROM itens_pedido WHERE pedido_id = ?), 0)
		             + valor_frete - desconto_total,
		       updated_at = NOW()
		 WHERE id = ?
		RETURNING total`, id, id).Scan(&row).Error
	return row.Total, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Pedido{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Itens.Produto").Preload("Itens.Lote").
		Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&pedidos).Error
	return pedidos, total, err
}
