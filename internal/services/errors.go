// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tauro-app/tauro-backend/internal/database"
)

// Error kinds. Handlers branch on these with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrConflict           = errors.New("conflict")
)

var (
	ErrGarmentNotFound     = fmt.Errorf("garment %w", ErrNotFound)
	ErrMaterialNotFound    = fmt.Errorf("material %w", ErrNotFound)
	ErrAssignmentNotFound  = fmt.Errorf("garment material %w", ErrNotFound)
	ErrNoMaterialsForGroup = fmt.Errorf("no materials for this size group: %w", ErrNotFound)

	ErrInvalidQuantity   = fmt.Errorf("invalid quantity: %w", ErrInvalidInput)
	ErrInvalidSizeGroup  = fmt.Errorf("invalid size group: %w", ErrInvalidInput)
	ErrInvalidGarmentRef = fmt.Errorf("garment id or name is required: %w", ErrInvalidInput)

	ErrGarmentExists  = fmt.Errorf("garment name already in use: %w", ErrConflict)
	ErrMaterialExists = fmt.Errorf("material name already in use: %w", ErrConflict)
)

// storageError marks err as ErrStorageUnavailable while keeping the cause.
func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// dbError maps unique violations to conflict, the rest to storage errors.
func dbError(op string, err error, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, conflict)
	}
	return storageError(op, err)
}

// inTransaction runs fn through database.WithTransaction and reports
// begin or commit failures as storage errors.
func inTransaction(db *gorm.DB, op string, fn func(*gorm.DB) error) error {
	err := database.WithTransaction(db, fn)
	if errors.Is(err, database.ErrTransaction) {
		return storageError(op, err)
	}
	return err
}
