package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Errors shared by several usecases.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPatientOnly        = errors.New("only patients can perform this action")
	ErrDoctorOnly         = errors.New("only doctors can perform this action")
	ErrWalletNotConnected = errors.New("wallet not connected")
)

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
