package repository

import (
	"context"
	"time"

	"viveiro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VendaQuery is the resolved search filter; zero values mean "no filter".
type VendaQuery struct {
	Inicio *time.Time // inclusive
	Fim    *time.Time // exclusive
	Numero int
	Status string
	Offset int
	Limit  int // 0 = no limit (export)
}

type VendaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	// LockByID locks the sale row and loads its items.
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Venda, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)
	// RecalcularTotal stores and returns SUM(itens_venda.subtotal) for the sale.
	RecalcularTotal(ctx context.Context, tx *gorm.DB, id uuid.UUID) (decimal.Decimal, error)
	List(ctx context.Context, q VendaQuery) ([]model.Venda, int64, error)
	SomaFinalizadas(ctx context.Context) (decimal.Decimal, error)
	DB() *gorm.DB
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) DB() *gorm.DB { return r.db }

func (r *vendaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venda) error {
	return conn(r.db, tx).WithContext(ctx).Omit("Cliente", "Itens.Produto", "Itens.Lote").Create(v).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).
		Preload("Itens.Produto").Preload("Itens.Lote").Preload("Cliente").
		First(&v, "id = ?", id).Error
	return &v, translate(err, "venda")
}

func (r *vendaRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Clauses(forUpdate).First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err, "venda")
	}
	if err := db.Where("venda_id = ?", id).Find(&v.Itens).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendaRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	return conn(r.db, tx).WithContext(ctx).Model(&model.Venda{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *vendaRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("venda_id = ?", id).Delete(&model.ItemVenda{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Venda{}, "id = ?", id).Error
}

func (r *vendaRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var n int
	err := conn(r.db, tx).WithContext(ctx).Raw("SELECT nextval('vendas_numero_seq')").Scan(&n).Error
	return n, err
}

func (r *vendaRepo) RecalcularTotal(ctx context.Context, tx *gorm.DB, id uuid.UUID) (decimal.Decimal, error) {
	var row somaRow
	err := conn(r.db, tx).WithContext(ctx).Raw(`
		UPDATE vendas
		   SET total = COALESCE((SELECT SUM(subtotal) FROM itens_venda WHERE venda_id = ?), 0),
		       updated_at = NOW()
		 WHERE id = ?
		RETURNING total`, id, id).Scan(&row).Error
	return row.Total, err
}

func (r *vendaRepo) List(ctx context.Context, q VendaQuery) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Venda{})
	if q.Inicio != nil {
		db = db.Where("data_venda >= ?", *q.Inicio)
	}
	if q.Fim != nil {
		db = db.Where("data_venda < ?", *q.Fim)
	}
	if q.Numero > 0 {
		db = db.Where("numero = ?", q.Numero)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Preload("Itens.Produto").Preload("Itens.Lote").Preload("Cliente").
		Order("data_venda DESC").Offset(q.Offset)
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	err := db.Find(&vendas).Error
	return vendas, total, err
}

func (r *vendaRepo) SomaFinalizadas(ctx context.Context) (decimal.Decimal, error) {
	var row somaRow
	err := r.db.WithContext(ctx).Model(&model.Venda{}).
		Where("status = ?", model.VendaFinalizada).
		Select("COALESCE(SUM(total), 0) AS total").Scan(&row).Error
	return row.Total, err
}
