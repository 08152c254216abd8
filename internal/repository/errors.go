package repository

import (
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/juju/errors"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	storeerrors "go-retail-store/internal/errors"
)

// PostgreSQL SQLSTATE codes.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// translate maps driver errors onto the store's error values. what and id
// describe the row for the error message.
func translate(err error, what string, id any) error {
	if err == nil {
		return nil
	}
	subject := what
	if id != nil {
		subject = fmt.Sprintf("%s %v", what, id)
	}

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Annotatef(storeerrors.NotFound, "%s", subject)
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Annotatef(storeerrors.AlreadyExists, "%s", subject)
	}
	if stderrors.Is(err, gorm.ErrForeignKeyViolated) {
		return errors.Annotatef(storeerrors.ReferenceInUse, "%s", subject)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return errors.Annotatef(storeerrors.ReferenceInUse, "%s: %s", subject, pgErr.ConstraintName)
		case pgUniqueViolation:
			return errors.Annotatef(storeerrors.AlreadyExists, "%s: %s", subject, pgErr.ConstraintName)
		case pgCheckViolation:
			return errors.Annotatef(storeerrors.InvalidArgument, "%s: %s", subject, pgErr.ConstraintName)
		}
	}

	var liteErr sqlite3.Error
	if stderrors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return errors.Annotatef(storeerrors.ReferenceInUse, "%s", subject)
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.Annotatef(storeerrors.AlreadyExists, "%s", subject)
		case sqlite3.ErrConstraintCheck:
			return errors.Annotatef(storeerrors.InvalidArgument, "%s", subject)
		}
	}

	return errors.Annotatef(err, "%s", subject)
}

// countRefs counts rows of model whose column equals id.
func countRefs(tx *gorm.DB, model any, column string, id uint) (int64, error) {
	var n int64
	err := tx.Model(model).Where(column+" = ?", id).Count(&n).Error
	return n, err
}
