package repository

import (
	"context"

	"viveiro/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CaixaRepository stores manual cash drawer movements. Rows are append-only.
type CaixaRepository interface {
	CreateMovimento(ctx context.Context, m *model.MovimentoCaixa) error
	// ListMovimentos returns the full history, newest first.
	ListMovimentos(ctx context.Context) ([]model.MovimentoCaixa, error)
	SomaPorTipo(ctx context.Context, tipo string) (decimal.Decimal, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) CreateMovimento(ctx context.Context, m *model.MovimentoCaixa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *caixaRepo) ListMovimentos(ctx context.Context) ([]model.MovimentoCaixa, error) {
	var movs []model.MovimentoCaixa
	err := r.db.WithContext(ctx).Order("data_hora DESC").Find(&movs).Error
	return movs, err
}

func (r *caixaRepo) SomaPorTipo(ctx context.Context, tipo string) (decimal.Decimal, error) {
	var row somaRow
	err := r.db.WithContext(ctx).Model(&model.MovimentoCaixa{}).
		Where("tipo = ?", tipo).
		Select("COALESCE(SUM(valor), 0) AS total").Scan(&row).Error
	return row.Total, err
}
