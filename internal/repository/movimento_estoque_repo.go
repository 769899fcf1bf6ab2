package repository

import (
	"context"

	"viveiro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovimentoEstoqueRepository interface {
	Create(ctx context.Context, tx *gorm.DB, movs []model.MovimentoEstoque) error
	ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error)
}

type movimentoEstoqueRepo struct{ db *gorm.DB }

func NewMovimentoEstoqueRepository(db *gorm.DB) MovimentoEstoqueRepository {
	return &movimentoEstoqueRepo{db: db}
}

func (r *movimentoEstoqueRepo) Create(ctx context.Context, tx *gorm.DB, movs []model.MovimentoEstoque) error {
	if len(movs) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).Create(&movs).Error
}

func (r *movimentoEstoqueRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	var movs []model.MovimentoEstoque
	err := r.db.WithContext(ctx).Where("produto_id = ?", produtoID).
		Order("created_at DESC").Limit(limit).Find(&movs).Error
	return movs, err
}
