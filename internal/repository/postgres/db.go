package postgres

import (
	"database/sql"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"net"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/neuroscan/clinic-api/internal/config"
	"github.com/neuroscan/clinic-api/pkg/errors"
)

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// translateError turns driver failures into the typed taxonomy. Absence is
// reported as NotFound; connection-level failures become StorageUnavailable
// so callers can distinguish "no data" from an outage.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(resource)
	}
	if stderrors.Is(err, driver.ErrBadConn) {
		return errors.StorageUnavailable(err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return errors.StorageUnavailable(err)
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return errors.StorageUnavailable(err)
	}
	return errors.Internal(err)
}
