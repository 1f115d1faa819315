package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/joefazee/globeguide/models"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a unique constraint,
// whichever postgres driver produced it.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

// TranslateError maps storage errors onto domain errors. duplicate is
// returned for unique violations.
func TranslateError(err, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrRecordNotFound
	case duplicate != nil && IsUniqueViolation(err):
		return duplicate
	default:
		return err
	}
}
