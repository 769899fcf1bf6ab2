package repository

import (
	"context"

	"viveiro/internal/dto"
	"viveiro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, l *model.Lote) error
	Update(ctx context.Context, tx *gorm.DB, l *model.Lote) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Lote, error)
	List(ctx context.Context, filter dto.LoteFilter) ([]model.Lote, int64, error)
	// Search matches code, variety, species, category and sowing date (DD/MM/YYYY or YYYY-MM-DD text).
	Search(ctx context.Context, q string, limit int) ([]model.Lote, error)
	// CountReferencias counts sale and order items pointing at the batch.
	CountReferencias(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)

	// LockByIDs takes FOR UPDATE locks in id order and returns the rows found.
	LockByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.Lote, error)
	// FindOldestWithStock returns the earliest-sown batch of a product holding at
	// least min units. It takes no lock; callers lock the result through LockByIDs.
	FindOldestWithStock(ctx context.Context, tx *gorm.DB, produtoID uuid.UUID, min int) (*model.Lote, error)
	AjustarQuantidade(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error

	DB() *gorm.DB
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) DB() *gorm.DB { return r.db }

func (r *loteRepo) Create(ctx context.Context, tx *gorm.DB, l *model.Lote) error {
	return translate(conn(r.db, tx).WithContext(ctx).Omit("Produto").Create(l).Error, "lote")
}

func (r *loteRepo) Update(ctx context.Context, tx *gorm.DB, l *model.Lote) error {
	err := conn(r.db, tx).WithContext(ctx).Model(l).
		Select("produto_id", "produtor_id", "data_semeadura", "quantidade", "preco_unitario", "observacoes").
		Updates(l).Error
	return translate(err, "lote")
}

func (r *loteRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Model(&model.Etiqueta{}).Where("lote_id = ?", id).Update("lote_id", nil).Error; err != nil {
		return err
	}
	if err := db.Where("lote_id = ?", id).Delete(&model.MovimentoEstoque{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Lote{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "lote")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "lote")
	}
	return nil
}

func (r *loteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).Preload("Produto").First(&l, "id = ?", id).Error
	return &l, translate(err, "lote")
}

func (r *loteRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).Preload("Produto").Where("codigo = ?", codigo).First(&l).Error
	return &l, translate(err, "lote")
}

func (r *loteRepo) List(ctx context.Context, filter dto.LoteFilter) ([]model.Lote, int64, error) {
	var lotes []model.Lote
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Lote{}).
		Joins("JOIN produtos ON produtos.id = lotes.produto_id")
	if filter.Q != "" {
		like := likeArg(filter.Q)
		q = q.Where("lotes.codigo ILIKE ? OR produtos.variedade ILIKE ? OR produtos.especie ILIKE ?", like, like, like)
	}
	if filter.ProdutoID != "" {
		q = q.Where("lotes.produto_id = ?", filter.ProdutoID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Produto").
		Order("lotes.data_semeadura DESC, lotes.codigo ASC").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&lotes).Error
	return lotes, total, err
}

func (r *loteRepo) Search(ctx context.Context, q string, limit int) ([]model.Lote, error) {
	var lotes []model.Lote
	like := likeArg(q)
	err := r.db.WithContext(ctx).
		Joins("JOIN produtos ON produtos.id = lotes.produto_id").
		Where(`lotes.codigo ILIKE ? OR produtos.variedade ILIKE ? OR produtos.especie ILIKE ?
			OR produtos.tipo ILIKE ? OR to_char(lotes.data_semeadura, 'DD/MM/YYYY') LIKE ?
			OR to_char(lotes.data_semeadura, 'YYYY-MM-DD') LIKE ?`,
			like, like, like, like, like, like).
		Preload("Produto").
		Order("lotes.codigo ASC").
		Limit(limit).
		Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) CountReferencias(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	var n int64
	err := conn(r.db, tx).WithContext(ctx).Raw(`
		SELECT (SELECT COUNT(*) FROM itens_venda WHERE lote_id = ?)
		     + (SELECT COUNT(*) FROM itens_pedido WHERE lote_id = ?)`, id, id).
		Scan(&n).Error
	return n, err
}

func (r *loteRepo) LockByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.Lote, error) {
	var lotes []model.Lote
	if len(ids) == 0 {
		return lotes, nil
	}
	err := conn(r.db, tx).WithContext(ctx).Clauses(forUpdate).
		Where("id IN ?", ids).Order("id").Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) FindOldestWithStock(ctx context.Context, tx *gorm.DB, produtoID uuid.UUID, min int) (*model.Lote, error) {
	var l model.Lote
	err := conn(r.db, tx).WithContext(ctx).
		Where("produto_id = ? AND quantidade >= ?", produtoID, min).
		Order("data_semeadura ASC, id ASC").
		First(&l).Error
	return &l, translate(err, "lote com estoque")
}

func (r *loteRepo) AjustarQuantidade(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	return conn(r.db, tx).WithContext(ctx).Model(&model.Lote{}).Where("id = ?", id).
		Updates(map[string]any{
			"quantidade": gorm.Expr("quantidade + ?", delta),
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}
