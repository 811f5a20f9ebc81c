package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrConflict is returned when a write violates a uniqueness or reference
	// constraint, or when a delete is blocked by dependent rows.
	ErrConflict = errors.New("repository: conflicting row state")
)

// translate classifies driver errors. Constraint violations become
// ErrConflict; everything else passes through untouched and is treated by
// callers as a transient failure.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

// IsNotFound reports whether err means a lookup matched no row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// deleteIn removes rows of model whose column matches one of ids. An empty id
// set never reaches the database: "IN ()" is invalid SQL on most engines.
func deleteIn(tx *gorm.DB, model any, column string, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where(column+" IN ?", ids).Delete(model).Error
}
