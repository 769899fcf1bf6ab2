package repository

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"viveiro/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translate maps gorm errors onto the domain taxonomy. The database must be
// opened with TranslateError enabled for the duplicate/FK cases to surface.
func translate(err error, entidade string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, entidade)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s já cadastrado", domain.ErrConflict, entidade)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s está em uso", domain.ErrConflict, entidade)
	}
	return err
}

// forUpdate is the row lock used on every stock-bearing row.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// conn picks the transaction when present, the pool otherwise.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// SortIDs orders ids so concurrent transactions acquire row locks in the same order.
func SortIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return out
}

func likeArg(q string) string { return "%" + q + "%" }

// somaRow receives single-column aggregates aliased as "total".
type somaRow struct {
	Total decimal.Decimal
}
