package net

import (
	"net/http"

	perr "eventscope/internal/platform/errors"
)

// Envelope is the body of every json response
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Detail     string         `json:"detail,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
	Page       *Page          `json:"page,omitempty"`
}

// Page mirrors the Link header cursors in the body
type Page struct {
	PageSize int    `json:"page_size"`
	Cursor   string `json:"cursor,omitempty"`
	Prev     string `json:"prev,omitempty"`
	Next     string `json:"next,omitempty"`
}

// Success wraps data in a status envelope
func Success(status int, data any, reqID string) Envelope {
	return Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// Failure maps err to its status and error envelope
// client errors repeat the message under detail; 5xx bodies never carry the cause
func Failure(err error, reqID string) (int, Envelope) {
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	env := Envelope{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		RequestID:  reqID,
	}
	switch _, coded := perr.As(err); {
	case status < http.StatusInternalServerError:
		env.Detail = w.Message
		env.Field = w.Field
	case !coded:
		env.Error = env.Status
	}
	return status, env
}
