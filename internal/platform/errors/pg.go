package errors

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlstate classes we map; anything else is ErrorCodeDB
var sqlStates = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23503": ErrorCodeInvalidArgument, // foreign_key_violation
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
	"57014": ErrorCodeUnavailable,     // query_canceled
	"53300": ErrorCodeUnavailable,     // too_many_connections
}

// PgError returns the *pgconn.PgError in err's chain
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// FromPostgres wraps err under msg with a code picked from its sqlstate
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	e := &Error{code: ErrorCodeDB, msg: msg, cause: err}
	if pgErr, ok := PgError(err); ok {
		if c, ok := sqlStates[pgErr.Code]; ok {
			e.code = c
		}
		e.field = pgErr.ColumnName
	}
	return e
}
