package repository

import (
	"context"

	"viveiro/internal/dto"
	"viveiro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	ExistsCodigoUnico(ctx context.Context, codigo string, exceto *uuid.UUID) (bool, error)
	ExistsDocumento(ctx context.Context, doc string, exceto *uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, c *model.Cliente) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, "cliente")
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, translate(err, "cliente")
}

func (r *clienteRepo) ExistsCodigoUnico(ctx context.Context, codigo string, exceto *uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Cliente{}).Where("codigo_unico = ?", codigo), exceto)
}

func (r *clienteRepo) ExistsDocumento(ctx context.Context, doc string, exceto *uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Cliente{}).Where("cpf_cnpj = ?", doc), exceto)
}

func (r *clienteRepo) List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if filter.Q != "" {
		like := likeArg(filter.Q)
		q = q.Where(`nome_completo ILIKE ? OR razao_social ILIKE ? OR nome_fantasia ILIKE ?
			OR cpf_cnpj LIKE ? OR codigo_unico ILIKE ? OR cidade ILIKE ?`,
			like, like, like, like, like, like)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo_cliente = ?", filter.Tipo)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("COALESCE(nome_completo, nome_fantasia, razao_social) ASC").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return translate(r.db.WithContext(ctx).Save(c).Error, "cliente")
}

func (r *clienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Cliente](ctx, r.db, id, "cliente")
}

func exists(q *gorm.DB, exceto *uuid.UUID) (bool, error) {
	if exceto != nil {
		q = q.Where("id <> ?", *exceto)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}

// deleteByID deletes one row and reports ErrNotFound when nothing matched.
func deleteByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, entidade string) error {
	res := db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, entidade)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, entidade)
	}
	return nil
}
