package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/brazaforte/internal/apperr"
)

// Postgres SQLSTATE codes the stores care about.
const (
	codeForeignKeyViolation  = "23503"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// Classify translates driver errors into apperr kinds. Errors it does not
// recognise are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeForeignKeyViolation:
		// Deleting a parent row reports "is still referenced"; inserting a child
		// that points nowhere reports "is not present".
		if strings.Contains(pgErr.Detail, "is still referenced") {
			return fmt.Errorf("%w (%s)", apperr.ErrReferenced, pgErr.ConstraintName)
		}

		return fmt.Errorf("%w: %s", apperr.ErrNotFound, pgErr.Detail)
	case codeUniqueViolation:
		return fmt.Errorf("%w (%s)", apperr.ErrDuplicate, pgErr.ConstraintName)
	case codeCheckViolation:
		return apperr.Invalid(pgErr.ConstraintName, pgErr.Message)
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %s", apperr.ErrConflict, pgErr.Message)
	}

	return err
}
