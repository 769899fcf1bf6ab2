package repository

import (
	"context"

	"viveiro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FiscalRepository serves the NCM and CFOP reference tables.
type FiscalRepository interface {
	// SearchNCM tries the exact dotless code first when codigo is set, then
	// falls back to ILIKE on code or description.
	SearchNCM(ctx context.Context, codigo, q string, limit int) ([]model.NCM, error)
	SearchCFOP(ctx context.Context, codigo, q string, limit int) ([]model.CFOP, error)
	FindNCMByID(ctx context.Context, id uuid.UUID) (*model.NCM, error)
	FindCFOPByID(ctx context.Context, id uuid.UUID) (*model.CFOP, error)
	// ImportNCM inserts rows, skipping codes already present. Returns rows inserted.
	ImportNCM(ctx context.Context, ncms []model.NCM) (int64, error)
	// ReplaceCFOP empties the table and loads cfops in one transaction.
	ReplaceCFOP(ctx context.Context, cfops []model.CFOP) error
}

type fiscalRepo struct{ db *gorm.DB }

func NewFiscalRepository(db *gorm.DB) FiscalRepository { return &fiscalRepo{db: db} }

func (r *fiscalRepo) SearchNCM(ctx context.Context, codigo, q string, limit int) ([]model.NCM, error) {
	var out []model.NCM
	db := r.db.WithContext(ctx).Limit(limit).Order("codigo")
	if codigo != "" {
		if err := db.Where("REPLACE(codigo, '.', '') = ?", codigo).Find(&out).Error; err != nil || len(out) > 0 {
			return out, err
		}
	}
	like := likeArg(q)
	err := db.Where("codigo ILIKE ? OR descricao ILIKE ?", like, like).Find(&out).Error
	return out, err
}

func (r *fiscalRepo) SearchCFOP(ctx context.Context, codigo, q string, limit int) ([]model.CFOP, error) {
	var out []model.CFOP
	db := r.db.WithContext(ctx).Limit(limit).Order("codigo")
	if codigo != "" {
		if err := db.Where("REPLACE(codigo, '.', '') = ?", codigo).Find(&out).Error; err != nil || len(out) > 0 {
			return out, err
		}
	}
	like := likeArg(q)
	err := db.Where("codigo ILIKE ? OR descricao ILIKE ?", like, like).Find(&out).Error
	return out, err
}

func (r *fiscalRepo) FindNCMByID(ctx context.Context, id uuid.UUID) (*model.NCM, error) {
	var n model.NCM
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	return &n, translate(err, "ncm")
}

func (r *fiscalRepo) FindCFOPByID(ctx context.Context, id uuid.UUID) (*model.CFOP, error) {
	var c model.CFOP
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, translate(err, "cfop")
}

func (r *fiscalRepo) ImportNCM(ctx context.Context, ncms []model.NCM) (int64, error) {
	if len(ncms) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "codigo"}}, DoNothing: true}).
		CreateInBatches(&ncms, 500)
	return res.RowsAffected, res.Error
}

func (r *fiscalRepo) ReplaceCFOP(ctx context.Context, cfops []model.CFOP) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("UPDATE produtos SET cfop_id = NULL WHERE cfop_id IS NOT NULL").Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM cfops").Error; err != nil {
			return err
		}
		if len(cfops) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "codigo"}}, DoNothing: true}).
			CreateInBatches(&cfops, 500).Error
	})
}
