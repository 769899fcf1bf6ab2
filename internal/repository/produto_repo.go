package repository

import (
	"context"

	"viveiro/internal/dto"
	"viveiro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProdutoRepository defines the data access contract for products.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Produto, error)
	List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
	Update(ctx context.Context, tx *gorm.DB, p *model.Produto) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountReferencias(ctx context.Context, id uuid.UUID) (int64, error)

	// LockByIDs takes FOR UPDATE locks in id order.
	LockByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.Produto, error)
	// RecalcularEstoque sets estoque = SUM(lotes.quantidade) and the derived status.
	RecalcularEstoque(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error

	DB() *gorm.DB
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) DB() *gorm.DB { return r.db }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, "produto")
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Preload("NCM").Preload("CFOP").First(&p, "id = ?", id).Error
	return &p, translate(err, "produto")
}

func (r *produtoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Produto, error) {
	var ps []model.Produto
	if len(ids) == 0 {
		return ps, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ps).Error
	return ps, err
}

func (r *produtoRepo) List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{})

	if filter.Q != "" {
		like := likeArg(filter.Q)
		q = q.Joins("LEFT JOIN ncms ON ncms.id = produtos.ncm_id").
			Joins("LEFT JOIN cfops ON cfops.id = produtos.cfop_id").
			Where(`produtos.cod ILIKE ? OR produtos.variedade ILIKE ? OR produtos.especie ILIKE ?
				OR produtos.cultivar_info ILIKE ? OR ncms.codigo ILIKE ? OR ncms.descricao ILIKE ?
				OR cfops.codigo ILIKE ? OR cfops.descricao ILIKE ?`,
				like, like, like, like, like, like, like, like)
	}
	if filter.Tipo != "" {
		q = q.Where("produtos.tipo = ?", filter.Tipo)
	}
	if filter.Status != "" {
		q = q.Where("produtos.status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("NCM").Preload("CFOP").
		Order("produtos.cod ASC").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&produtos).Error
	return produtos, total, err
}

// Update writes the editable columns. Estoque and status are left to RecalcularEstoque.
func (r *produtoRepo) Update(ctx context.Context, tx *gorm.DB, p *model.Produto) error {
	err := conn(r.db, tx).WithContext(ctx).Model(p).
		Select("cod", "tipo", "variedade", "especie", "cod_especie", "cultivar_info",
			"descricao_catalogo", "unidade", "qtd_unid", "preco", "ncm_id", "cfop_id", "imagem_url").
		Updates(p).Error
	return translate(err, "produto")
}

// Delete removes the product with its batches and stock audit rows.
func (r *produtoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("produto_id = ?", id).Delete(&model.MovimentoEstoque{}).Error; err != nil {
		return err
	}
	if err := db.Where("produto_id = ?", id).Delete(&model.Lote{}).Error; err != nil {
		return translate(err, "produto")
	}
	if err := db.Exec("DELETE FROM fornecedor_produtos WHERE produto_id = ?", id).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Produto{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "produto")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "produto")
	}
	return nil
}

func (r *produtoRepo) CountReferencias(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT (SELECT COUNT(*) FROM itens_venda WHERE produto_id = ?)
		     + (SELECT COUNT(*) FROM itens_pedido WHERE produto_id = ?)`, id, id).
		Scan(&n).Error
	return n, err
}

func (r *produtoRepo) LockByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.Produto, error) {
	var ps []model.Produto
	if len(ids) == 0 {
		return ps, nil
	}
	err := conn(r.db, tx).WithContext(ctx).Clauses(forUpdate).
		Where("id IN ?", ids).Order("id").Find(&ps).Error
	return ps, err
}

func (r *produtoRepo) RecalcularEstoque(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).Exec(`
		UPDATE produtos p
		   SET estoque = s.total,
		       status = CASE WHEN s.total > 0 THEN ? ELSE ? END,
		       updated_at = NOW()
		  FROM (SELECT p2.id, COALESCE(SUM(l.quantidade), 0) AS total
		          FROM produtos p2
		          LEFT JOIN lotes l ON l.produto_id = p2.id
		         WHERE p2.id IN ?
		         GROUP BY p2.id) s
		 WHERE p.id = s.id`,
		model.StatusComEstoque, model.StatusSemEstoque, ids).Error
}
