package repository

import (
	"context"

	"viveiro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FornecedorRepository interface {
	Create(ctx context.Context, f *model.Fornecedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Fornecedor, error)
	ExistsDocumento(ctx context.Context, doc string, exceto *uuid.UUID) (bool, error)
	List(ctx context.Context, q string, offset, limit int) ([]model.Fornecedor, int64, error)
	// Update saves scalar fields and replaces the product association.
	Update(ctx context.Context, f *model.Fornecedor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fornecedorRepo struct{ db *gorm.DB }

func NewFornecedorRepository(db *gorm.DB) FornecedorRepository { return &fornecedorRepo{db: db} }

func (r *fornecedorRepo) Create(ctx context.Context, f *model.Fornecedor) error {
	return translate(r.db.WithContext(ctx).Omit("Produtos.*").Create(f).Error, "fornecedor")
}

func (r *fornecedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Fornecedor, error) {
	var f model.Fornecedor
	err := r.db.WithContext(ctx).Preload("Produtos").First(&f, "id = ?", id).Error
	return &f, translate(err, "fornecedor")
}

func (r *fornecedorRepo) ExistsDocumento(ctx context.Context, doc string, exceto *uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Fornecedor{}).Where("cpf_cnpj = ?", doc), exceto)
}

func (r *fornecedorRepo) List(ctx context.Context, q string, offset, limit int) ([]model.Fornecedor, int64, error) {
	var out []model.Fornecedor
	var total int64
	db := r.db.WithContext(ctx).Model(&model.Fornecedor{})
	if q != "" {
		like := likeArg(q)
		db = db.Where("nome_empresa ILIKE ? OR nome_contato ILIKE ? OR cpf_cnpj LIKE ?", like, like, like)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Preload("Produtos").Order("nome_empresa ASC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

func (r *fornecedorRepo) Update(ctx context.Context, f *model.Fornecedor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Produtos").Save(f).Error; err != nil {
			return translate(err, "fornecedor")
		}
		return tx.Model(f).Association("Produtos").Replace(f.Produtos)
	})
}

func (r *fornecedorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM fornecedor_produtos WHERE fornecedor_id = ?", id).Error; err != nil {
			return err
		}
		return deleteByID[model.Fornecedor](ctx, tx, id, "fornecedor")
	})
}
