package infra

import (
	"fmt"

	"viveiro/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDatabase opens the postgres pool and brings the schema up to date.
func NewDatabase(dsn string, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         NewGormLogger(debug),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates sequences, migrates every model and then applies
// constraints AutoMigrate cannot express. Every step is idempotent.
func RunMigrations(db *gorm.DB) error {
	if err := applyPreMigrationPatches(db); err != nil {
		return fmt.Errorf("pre-migration patches: %w", err)
	}
	if err := db.AutoMigrate(
		&model.NCM{},
		&model.CFOP{},
		&model.Produto{},
		&model.ProdutorRural{},
		&model.ResponsavelTecnico{},
		&model.Lote{},
		&model.Usuario{},
		&model.Cliente{},
		&model.Fornecedor{},
		&model.Venda{},
		&model.ItemVenda{},
		&model.Pedido{},
		&model.ItemPedido{},
		&model.MovimentoCaixa{},
		&model.MovimentoEstoque{},
		&model.Veiculo{},
		&model.Maquina{},
		&model.Manutencao{},
		&model.Etiqueta{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

func applyPreMigrationPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"sequence vendas_numero_seq", `CREATE SEQUENCE IF NOT EXISTS vendas_numero_seq START 1`},
		{"sequence pedidos_numero_seq", `CREATE SEQUENCE IF NOT EXISTS pedidos_numero_seq START 1`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("pre-patch %q: %w", p.descr, err)
		}
	}
	return nil
}

func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"lotes quantidade >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_lotes_quantidade') THEN
    ALTER TABLE lotes ADD CONSTRAINT chk_lotes_quantidade CHECK (quantidade >= 0);
  END IF;
END $$`},
		{"movimentos_caixa valor > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_movimentos_caixa_valor') THEN
    ALTER TABLE movimentos_caixa ADD CONSTRAINT chk_movimentos_caixa_valor CHECK (valor > 0);
  END IF;
END $$`},
		{"manutencoes custo >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_manutencoes_custo') THEN
    ALTER TABLE manutencoes ADD CONSTRAINT chk_manutencoes_custo CHECK (custo >= 0);
  END IF;
END $$`},
		{"idx itens_venda lote for restore", `CREATE INDEX IF NOT EXISTS idx_itens_venda_venda_lote ON itens_venda (venda_id, lote_id)`},
		{"idx lotes produto/semeadura for checkout", `CREATE INDEX IF NOT EXISTS idx_lotes_produto_semeadura ON lotes (produto_id, data_semeadura)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
