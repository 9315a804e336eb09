// Package http is the json transport: a chi backed Router, return style handlers and the server
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "eventscope/internal/platform/net"
)

type (
	// Envelope is the body of every json response
	Envelope = pnet.Envelope

	// Page mirrors pagination cursors in the body
	Page = pnet.Page
)

// JSON writes v with status; its signature is the write func middlewares take
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return style handlers produce
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
	Page   *Page
}

// OK is a 200 carrying data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error is a response whose status and body come from err
func Error(err error) Response { return Response{Body: err} }

// WithHeader returns a copy of resp with one more header value
func (resp Response) WithHeader(key, value string) Response {
	h := resp.Header.Clone()
	if h == nil {
		h = stdhttp.Header{}
	}
	h.Add(key, value)
	resp.Header = h
	return resp
}

// WithPage returns a copy of resp carrying a page block
func (resp Response) WithPage(p Page) Response {
	resp.Page = &p
	return resp
}

// Handle adapts a return style handler
func Handle(h func(*stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).write(w, r) }
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	reqID := pnet.RequestID(r.Context())

	if err, ok := resp.Body.(error); ok {
		status, env := pnet.Failure(err, reqID)
		JSON(w, status, env)
		return
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	env := pnet.Success(status, resp.Body, reqID)
	env.Page = resp.Page
	JSON(w, status, env)
}
