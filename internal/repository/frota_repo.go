package repository

import (
	"context"

	"viveiro/internal/dto"
	"viveiro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FrotaRepository covers vehicles, machines and their maintenance log.
type FrotaRepository interface {
	CreateVeiculo(ctx context.Context, v *model.Veiculo) error
	FindVeiculo(ctx context.Context, id uuid.UUID) (*model.Veiculo, error)
	ListVeiculos(ctx context.Context) ([]model.Veiculo, error)
	UpdateVeiculo(ctx context.Context, v *model.Veiculo) error
	DeleteVeiculo(ctx context.Context, id uuid.UUID) error

	CreateMaquina(ctx context.Context, m *model.Maquina) error
	FindMaquina(ctx context.Context, id uuid.UUID) (*model.Maquina, error)
	ListMaquinas(ctx context.Context) ([]model.Maquina, error)
	UpdateMaquina(ctx context.Context, m *model.Maquina) error
	DeleteMaquina(ctx context.Context, id uuid.UUID) error

	CreateManutencao(ctx context.Context, m *model.Manutencao) error
	FindManutencao(ctx context.Context, id uuid.UUID) (*model.Manutencao, error)
	ListManutencoes(ctx context.Context, filter dto.ManutencaoFilter) ([]model.Manutencao, int64, error)
	UpdateManutencao(ctx context.Context, m *model.Manutencao) error
	DeleteManutencao(ctx context.Context, id uuid.UUID) error
}

type frotaRepo struct{ db *gorm.DB }

func NewFrotaRepository(db *gorm.DB) FrotaRepository { return &frotaRepo{db: db} }

// ── Veículos ─────────────────────────────────────────────────────────────────

func (r *frotaRepo) CreateVeiculo(ctx context.Context, v *model.Veiculo) error {
	return translate(r.db.WithContext(ctx).Create(v).Error, "veículo")
}

func (r *frotaRepo) FindVeiculo(ctx context.Context, id uuid.UUID) (*model.Veiculo, error) {
	var v model.Veiculo
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, translate(err, "veículo")
}

func (r *frotaRepo) ListVeiculos(ctx context.Context) ([]model.Veiculo, error) {
	var out []model.Veiculo
	err := r.db.WithContext(ctx).Order("nome ASC").Find(&out).Error
	return out, err
}

func (r *frotaRepo) UpdateVeiculo(ctx context.Context, v *model.Veiculo) error {
	return translate(r.db.WithContext(ctx).Save(v).Error, "veículo")
}

// DeleteVeiculo detaches maintenance history before removing the vehicle.
func (r *frotaRepo) DeleteVeiculo(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Manutencao{}).Where("veiculo_id = ?", id).Update("veiculo_id", nil).Error; err != nil {
			return err
		}
		return deleteByID[model.Veiculo](ctx, tx, id, "veículo")
	})
}

// ── Máquinas ─────────────────────────────────────────────────────────────────

func (r *frotaRepo) CreateMaquina(ctx context.Context, m *model.Maquina) error {
	return translate(r.db.WithContext(ctx).Create(m).Error, "máquina")
}

func (r *frotaRepo) FindMaquina(ctx context.Context, id uuid.UUID) (*model.Maquina, error) {
	var m model.Maquina
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, translate(err, "máquina")
}

func (r *frotaRepo) ListMaquinas(ctx context.Context) ([]model.Maquina, error) {
	var out []model.Maquina
	err := r.db.WithContext(ctx).Order("nome ASC").Find(&out).Error
	return out, err
}

func (r *frotaRepo) UpdateMaquina(ctx context.Context, m *model.Maquina) error {
	return translate(r.db.WithContext(ctx).Save(m).Error, "máquina")
}

func (r *frotaRepo) DeleteMaquina(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Manutencao{}).Where("maquina_id = ?", id).Update("maquina_id", nil).Error; err != nil {
			return err
		}
		return deleteByID[model.Maquina](ctx, tx, id, "máquina")
	})
}

// ── Manutenções ──────────────────────────────────────────────────────────────

func (r *frotaRepo) CreateManutencao(ctx context.Context, m *model.Manutencao) error {
	return translate(r.db.WithContext(ctx).Omit("Veiculo", "Maquina").Create(m).Error, "manutenção")
}

func (r *frotaRepo) FindManutencao(ctx context.Context, id uuid.UUID) (*model.Manutencao, error) {
	var m model.Manutencao
	err := r.db.WithContext(ctx).Preload("Veiculo").Preload("Maquina").First(&m, "id = ?", id).Error
	return &m, translate(err, "manutenção")
}

func (r *frotaRepo) ListManutencoes(ctx context.Context, filter dto.ManutencaoFilter) ([]model.Manutencao, int64, error) {
	var out []model.Manutencao
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Manutencao{})
	if filter.VeiculoID != "" {
		q = q.Where("veiculo_id = ?", filter.VeiculoID)
	}
	if filter.MaquinaID != "" {
		q = q.Where("maquina_id = ?", filter.MaquinaID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Veiculo").Preload("Maquina").
		Order("data_manutencao DESC, created_at DESC").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&out).Error
	return out, total, err
}

func (r *frotaRepo) UpdateManutencao(ctx context.Context, m *model.Manutencao) error {
	return translate(r.db.WithContext(ctx).Omit("Veiculo", "Maquina").Save(m).Error, "manutenção")
}

func (r *frotaRepo) DeleteManutencao(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Manutencao](ctx, r.db, id, "manutenção")
}
