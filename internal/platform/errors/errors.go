// Package errors is the coded error type every layer returns
//
// Import it as perr. Handlers turn an error into a status with HTTPStatus
// and into the response body with WireFrom.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable class of an error; values are on the wire
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB

	// ErrorCodeInvalidQuery is a search query the grammar rejects
	ErrorCodeInvalidQuery
	// ErrorCodeInvalidParams is a malformed or inverted date range
	ErrorCodeInvalidParams
	// ErrorCodeGroupEvents is a query that cannot run against the issue dataset
	ErrorCodeGroupEvents
	// ErrorCodeOutOfRetention is a window entirely before the retention floor
	ErrorCodeOutOfRetention
	// ErrorCodeStorage is a failure reported by the event storage engine, timeouts included
	ErrorCodeStorage
)

var statusOf = map[ErrorCode]int{
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeTooManyRequests: http.StatusTooManyRequests,
	ErrorCodeConflict:        http.StatusConflict,
	ErrorCodeDuplicateKey:    http.StatusConflict,
	ErrorCodeUnauthorized:    http.StatusUnauthorized,
	ErrorCodeForbidden:       http.StatusForbidden,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeInvalidQuery:    http.StatusBadRequest,
	ErrorCodeInvalidParams:   http.StatusBadRequest,
	ErrorCodeGroupEvents:     http.StatusBadRequest,
	ErrorCodeOutOfRetention:  http.StatusBadRequest,
	ErrorCodeStorage:         http.StatusBadRequest,
}

// HTTPStatusCode maps a code to a status; unmapped codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if st, ok := statusOf[c]; ok {
		return st
	}
	return http.StatusInternalServerError
}

// Error carries a code, a message safe to show callers, an optional field and cause
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

// Wire is the json form of an Error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field names the offending input, if any
func (e *Error) Field() string { return e.field }

// Message is the text without the cause
func (e *Error) Message() string { return e.msg }

// WireFrom renders any error; foreign errors become Unknown with their text
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Root returns the innermost cause
func Root(err error) error {
	for err != nil {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// CodeOf returns err's code, Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is HTTPStatusCode(CodeOf(err))
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WithField returns a copy of err naming field; foreign errors pass through
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// New returns an error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf formats msg
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrapf keeps cause in the chain under a coded message
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), cause: cause}
}

// sugar for the codes handlers return most

func NotFoundf(format string, a ...any) error       { return Newf(ErrorCodeNotFound, format, a...) }
func PanicErrf(format string, a ...any) error       { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error   { return Newf(ErrorCodeUnauthorized, format, a...) }
func InvalidQueryf(format string, a ...any) error   { return Newf(ErrorCodeInvalidQuery, format, a...) }
func InvalidParamsf(format string, a ...any) error  { return Newf(ErrorCodeInvalidParams, format, a...) }
func GroupEventsf(format string, a ...any) error    { return Newf(ErrorCodeGroupEvents, format, a...) }
func OutOfRetentionf(format string, a ...any) error { return Newf(ErrorCodeOutOfRetention, format, a...) }
