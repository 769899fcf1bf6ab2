package repository

import (
	"context"

	"viveiro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EtiquetaRepository interface {
	Create(ctx context.Context, e *model.Etiqueta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Etiqueta, error)
	List(ctx context.Context, q string, offset, limit int) ([]model.Etiqueta, int64, error)
	Update(ctx context.Context, e *model.Etiqueta) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type etiquetaRepo struct{ db *gorm.DB }

func NewEtiquetaRepository(db *gorm.DB) EtiquetaRepository { return &etiquetaRepo{db: db} }

func (r *etiquetaRepo) Create(ctx context.Context, e *model.Etiqueta) error {
	return translate(r.db.WithContext(ctx).Create(e).Error, "etiqueta")
}

func (r *etiquetaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Etiqueta, error) {
	var e model.Etiqueta
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, translate(err, "etiqueta")
}

func (r *etiquetaRepo) List(ctx context.Context, q string, offset, limit int) ([]model.Etiqueta, int64, error) {
	var out []model.Etiqueta
	var total int64
	db := r.db.WithContext(ctx).Model(&model.Etiqueta{})
	if q != "" {
		like := likeArg(q)
		db = db.Where("codigo_lote ILIKE ? OR variedade_produto ILIKE ? OR nome_cliente ILIKE ?", like, like, like)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

func (r *etiquetaRepo) Update(ctx context.Context, e *model.Etiqueta) error {
	return translate(r.db.WithContext(ctx).Save(e).Error, "etiqueta")
}

func (r *etiquetaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Etiqueta](ctx, r.db, id, "etiqueta")
}
