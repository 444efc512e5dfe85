package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicate surfaces a unique-constraint violation so services can map
// concurrent registration races to a business-rule failure instead of a 500.
var ErrDuplicate = errors.New("duplicate key")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// WithTx runs fn inside a transaction. Rollback happens on error or panic,
// commit only on clean return.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func isUniqueViolation(err error) bool {
	// pgx does not expose a typed error through gorm here; SQLSTATE 23505 is
	// the unique_violation class.
	return strings.Contains(err.Error(), "SQLSTATE 23505") ||
		strings.Contains(err.Error(), "duplicate key value")
}
