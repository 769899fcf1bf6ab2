package repository

import (
	"context"

	"viveiro/internal/dto"
	"viveiro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProdutorRepository interface {
	Create(ctx context.Context, p *model.ProdutorRural) error
	// FindByID preloads the technical managers.
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProdutorRural, error)
	ExistsDocumento(ctx context.Context, doc string, exceto *uuid.UUID) (bool, error)
	List(ctx context.Context, q string, offset, limit int) ([]model.ProdutorRural, int64, error)
	Update(ctx context.Context, p *model.ProdutorRural) error
	// Delete cascades to the producer's technical managers and detaches its batches.
	Delete(ctx context.Context, id uuid.UUID) error
}

type produtorRepo struct{ db *gorm.DB }

func NewProdutorRepository(db *gorm.DB) ProdutorRepository { return &produtorRepo{db: db} }

func (r *produtorRepo) Create(ctx context.Context, p *model.ProdutorRural) error {
	return translate(r.db.WithContext(ctx).Omit("Responsaveis").Create(p).Error, "produtor")
}

func (r *produtorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProdutorRural, error) {
	var p model.ProdutorRural
	err := r.db.WithContext(ctx).
		Preload("Responsaveis", func(db *gorm.DB) *gorm.DB { return db.Order("nome ASC") }).
		First(&p, "id = ?", id).Error
	return &p, translate(err, "produtor")
}

func (r *produtorRepo) ExistsDocumento(ctx context.Context, doc string, exceto *uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.ProdutorRural{}).Where("cpf_cnpj = ?", doc), exceto)
}

func (r *produtorRepo) List(ctx context.Context, q string, offset, limit int) ([]model.ProdutorRural, int64, error) {
	var out []model.ProdutorRural
	var total int64
	db := r.db.WithContext(ctx).Model(&model.ProdutorRural{})
	if q != "" {
		like := likeArg(q)
		db = db.Where(`nome_fantasia ILIKE ? OR razao_social ILIKE ? OR cpf_cnpj LIKE ?
			OR renasem ILIKE ? OR cidade ILIKE ?`, like, like, like, like, like)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

func (r *produtorRepo) Update(ctx context.Context, p *model.ProdutorRural) error {
	return translate(r.db.WithContext(ctx).Omit("Responsaveis").Save(p).Error, "produtor")
}

func (r *produtorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Lote{}).Where("produtor_id = ?", id).Update("produtor_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("produtor_id = ?", id).Delete(&model.ResponsavelTecnico{}).Error; err != nil {
			return err
		}
		return deleteByID[model.ProdutorRural](ctx, tx, id, "produtor")
	})
}

type ResponsavelRepository interface {
	Create(ctx context.Context, rt *model.ResponsavelTecnico) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ResponsavelTecnico, error)
	ExistsCPF(ctx context.Context, cpf string, exceto *uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.ResponsavelFilter) ([]model.ResponsavelTecnico, int64, error)
	Update(ctx context.Context, rt *model.ResponsavelTecnico) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type responsavelRepo struct{ db *gorm.DB }

func NewResponsavelRepository(db *gorm.DB) ResponsavelRepository { return &responsavelRepo{db: db} }

func (r *responsavelRepo) Create(ctx context.Context, rt *model.ResponsavelTecnico) error {
	return translate(r.db.WithContext(ctx).Omit("Produtor").Create(rt).Error, "responsável técnico")
}

func (r *responsavelRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ResponsavelTecnico, error) {
	var rt model.ResponsavelTecnico
	err := r.db.WithContext(ctx).First(&rt, "id = ?", id).Error
	return &rt, translate(err, "responsável técnico")
}

func (r *responsavelRepo) ExistsCPF(ctx context.Context, cpf string, exceto *uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.ResponsavelTecnico{}).Where("cpf = ?", cpf), exceto)
}

func (r *responsavelRepo) List(ctx context.Context, filter dto.ResponsavelFilter) ([]model.ResponsavelTecnico, int64, error) {
	var out []model.ResponsavelTecnico
	var total int64
	db := r.db.WithContext(ctx).Model(&model.ResponsavelTecnico{})
	if filter.ProdutorID != "" {
		db = db.Where("produtor_id = ?", filter.ProdutorID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("nome ASC").Offset(filter.Offset()).Limit(filter.PageSize).Find(&out).Error
	return out, total, err
}

func (r *responsavelRepo) Update(ctx context.Context, rt *model.ResponsavelTecnico) error {
	return translate(r.db.WithContext(ctx).Omit("Produtor").Save(rt).Error, "responsável técnico")
}

func (r *responsavelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.ResponsavelTecnico](ctx, r.db, id, "responsável técnico")
}
