package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	Combustiveis    = []string{"GASOLINA", "ETANOL", "DIESEL", "FLEX", "ELETRICO", "OUTRO"}
	TiposMaquina    = []string{"TRATOR", "ROCADEIRA", "PULVERIZADOR", "GERADOR", "CULTIVADOR", "OUTRO"}
	TiposManutencao = []string{"PREVENTIVA", "CORRETIVA", "LUBRIFICACAO", "OUTRO"}
)

type Veiculo struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome            string    `gorm:"not null"`
	Placa           *string   `gorm:"type:varchar(10);uniqueIndex"`
	Modelo          *string
	Ano             *int
	TipoCombustivel string `gorm:"type:varchar(10);not null;default:'OUTRO'"`
	Observacoes     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Maquina struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome          string    `gorm:"not null"`
	Tipo          string    `gorm:"type:varchar(20);not null;default:'OUTRO'"`
	Identificacao *string   `gorm:"type:varchar(50);uniqueIndex"`
	Ano           *int
	Observacoes   *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Manutencao is a maintenance event on a vehicle, a machine, or both.
type Manutencao struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VeiculoID      *uuid.UUID      `gorm:"type:uuid;index"`
	MaquinaID      *uuid.UUID      `gorm:"type:uuid;index"`
	DataManutencao time.Time       `gorm:"type:date;not null;index"`
	Tipo           string          `gorm:"type:varchar(20);not null"`
	Descricao      string          `gorm:"type:text;not null"`
	Custo          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	RealizadaPor   *string
	CreatedAt      time.Time

	Veiculo *Veiculo `gorm:"foreignKey:VeiculoID"`
	Maquina *Maquina `gorm:"foreignKey:MaquinaID"`
}

func (Manutencao) TableName() string { return "manutencoes" }
