package repository

import (
	"context"
	"database/sql"
	"errors"
	"hash/fnv"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Direction of a single-step move within an ordered scope.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

func (d Direction) Valid() bool { return d == MoveUp || d == MoveDown }

// BaseOrderIndex is where every scope's numbering starts.
const BaseOrderIndex = 1

// OrderScope identifies the set of rows competing for order indexes: the full
// category collection, or the items of one category. Within a scope the
// indexes are a contiguous run from BaseOrderIndex with no duplicates.
type OrderScope struct {
	mdl       any
	label     string
	parentCol string
	parentID  uuid.UUID
}

// CategoryScope orders the full category collection.
func CategoryScope() OrderScope {
	return OrderScope{mdl: &model.Category{}, label: "category"}
}

// ItemScope orders the items owned by one category.
func ItemScope(categoryID uuid.UUID) OrderScope {
	return OrderScope{mdl: &model.Item{}, label: "item", parentCol: "category_id", parentID: categoryID}
}

func (s OrderScope) query(db *gorm.DB) *gorm.DB {
	q := db.Model(s.mdl)
	if s.parentCol != "" {
		q = q.Where(s.parentCol+" = ?", s.parentID)
	}
	return q
}

type orderedRow struct {
	ID         uuid.UUID
	OrderIndex int
}

// lockScope serializes writers of one ordered scope until the transaction
// ends. Without it two concurrent appends read the same MAX and insert a
// duplicate index. sqlite holds a single writer, so no lock is needed there.
func lockScope(tx *gorm.DB, scope OrderScope) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(scope.label))
	if scope.parentCol != "" {
		_, _ = h.Write([]byte(scope.parentID.String()))
	}
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", int64(h.Sum64())).Error; err != nil {
		return apperr.Store(err, "failed to lock %s scope", scope.label)
	}
	return nil
}

// NextIndex returns the index a newly created element should be appended at:
// one past the current maximum, or BaseOrderIndex for an empty scope. It takes
// the scope's writer lock, so it must run on the same transaction that inserts
// the row.
func NextIndex(ctx context.Context, db *gorm.DB, scope OrderScope) (int, error) {
	tx := GetDB(ctx, db)
	if err := lockScope(tx, scope); err != nil {
		return 0, err
	}

	var max sql.NullInt64
	err := scope.query(tx).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, apperr.Store(err, "failed to read %s order bounds", scope.label)
	}
	if !max.Valid {
		return BaseOrderIndex, nil
	}
	return int(max.Int64) + 1, nil
}

// Move swaps the element with its neighbor one step up or down. A move past
// the edge of the scope is a successful no-op. The neighbor is re-read and
// both updates are compare-and-swapped on the previously observed indexes
// inside a single transaction, so two admins reordering the same scope can
// never leave a duplicate or missing index: the loser of the race rolls back
// with a conflict instead of half-applying.
func Move(ctx context.Context, db *gorm.DB, scope OrderScope, id uuid.UUID, dir Direction) error {
	if !dir.Valid() {
		return apperr.Validation("invalid move direction %q", dir)
	}

	return GetDB(ctx, db).Transaction(func(tx *gorm.DB) error {
		var cur orderedRow
		err := scope.query(tx).
			Select("id", "order_index").
			Where("id = ?", id).
			Take(&cur).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("%s not found", scope.label)
		}
		if err != nil {
			return apperr.Store(err, "failed to load %s", scope.label)
		}

		var bounds struct {
			Min sql.NullInt64
			Max sql.NullInt64
		}
		err = scope.query(tx).
			Select("MIN(order_index) AS min, MAX(order_index) AS max").
			Scan(&bounds).Error
		if err != nil || !bounds.Min.Valid || !bounds.Max.Valid {
			return apperr.Store(err, "failed to read %s order bounds", scope.label)
		}

		// Already at the edge: success without mutation.
		if dir == MoveUp && int64(cur.OrderIndex) <= bounds.Min.Int64 {
			return nil
		}
		if dir == MoveDown && int64(cur.OrderIndex) >= bounds.Max.Int64 {
			return nil
		}

		target := cur.OrderIndex - 1
		if dir == MoveDown {
			target = cur.OrderIndex + 1
		}

		var neighbor orderedRow
		err = scope.query(tx).
			Select("id", "order_index").
			Where("order_index = ?", target).
			Where("id <> ?", id).
			Take(&neighbor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Contiguity guarantees the neighbor; a hole means the scope is corrupt.
			return apperr.InvariantViolation("%s order is not contiguous: no element at index %d", scope.label, target)
		}
		if err != nil {
			return apperr.Store(err, "failed to load %s neighbor", scope.label)
		}

		if err := casUpdateIndex(tx, scope, cur, neighbor.OrderIndex); err != nil {
			return err
		}
		return casUpdateIndex(tx, scope, neighbor, cur.OrderIndex)
	})
}

// casUpdateIndex moves one row to newIndex, guarded by the index it held when
// read. A concurrent reorder that already touched the row makes the guard
// miss, which aborts the whole swap.
func casUpdateIndex(tx *gorm.DB, scope OrderScope, row orderedRow, newIndex int) error {
	res := scope.query(tx).
		Where("id = ? AND order_index = ?", row.ID, row.OrderIndex).
		UpdateColumn("order_index", newIndex)
	if res.Error != nil {
		return apperr.Store(res.Error, "failed to update %s order", scope.label)
	}
	if res.RowsAffected != 1 {
		return apperr.Conflict("%s order changed concurrently", scope.label)
	}
	return nil
}

// Repack closes the gap a deletion leaves at removedIndex by shifting every
// greater index down by one. Takes the scope's writer lock so a concurrent
// append cannot interleave with the shift; must run in the same transaction
// as the delete.
func Repack(ctx context.Context, db *gorm.DB, scope OrderScope, removedIndex int) error {
	tx := GetDB(ctx, db)
	if err := lockScope(tx, scope); err != nil {
		return err
	}
	err := scope.query(tx).
		Where("order_index > ?", removedIndex).
		UpdateColumn("order_index", gorm.Expr("order_index - 1")).Error
	if err != nil {
		return apperr.Store(err, "failed to repack %s order", scope.label)
	}
	return nil
}
