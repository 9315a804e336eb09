package errors

import (
	"context"
	stderrs "errors"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// FromClickhouse wraps err under msg as a storage error
// the server's exception text, or the timeout, goes into the message callers see
func FromClickhouse(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	var ex *clickhouse.Exception
	switch {
	case stderrs.As(err, &ex):
		msg += ": " + ex.Message
	case stderrs.Is(err, context.DeadlineExceeded):
		msg += ": query timed out"
	}
	return &Error{code: ErrorCodeStorage, msg: msg, cause: err}
}
