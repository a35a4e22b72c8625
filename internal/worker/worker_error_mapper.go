package worker

import (
	"errors"
	"strings"

	workererrors "github.com/Bdavid117/sioma-app/internal/worker/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError translates store failures into domain errors. The
// unique constraint on external_id is the last line of defense against two
// devices creating the same worker concurrently, so 23505 becomes an
// ordinary conflict instead of an internal error.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return workererrors.ErrWorkerNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_workers_external_id" {
			return workererrors.ErrWorkerAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_workers_external_id") {
		return workererrors.ErrWorkerAlreadyExists
	}

	return err
}
