package http

import (
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	perr "eventscope/internal/platform/errors"
	pnet "eventscope/internal/platform/net"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveResp(t *testing.T, resp Response) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	req = req.WithContext(pnet.WithRequestID(req.Context(), "rid-1"))
	rec := httptest.NewRecorder()
	Handle(func(*stdhttp.Request) Response { return resp })(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHandle_OK(t *testing.T) {
	t.Parallel()

	rec, env := serveResp(t, OK(map[string]int{"n": 1}))

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, stdhttp.StatusOK, env.StatusCode)
	assert.Equal(t, "rid-1", env.RequestID)
	assert.Equal(t, map[string]any{"n": float64(1)}, env.Data)
	assert.Nil(t, env.Page)
}

func TestHandle_ZeroStatusIsOK(t *testing.T) {
	t.Parallel()

	rec, _ := serveResp(t, Response{Body: "x"})
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
}

func TestHandle_ErrorMapsStatus(t *testing.T) {
	t.Parallel()

	rec, env := serveResp(t, Error(perr.NotFoundf("issue not found")))
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	assert.Equal(t, perr.ErrorCodeNotFound, env.Code)
	assert.Equal(t, "issue not found", env.Detail)
	assert.Nil(t, env.Data)

	rec, env = serveResp(t, Error(errors.New("boom")))
	assert.Equal(t, stdhttp.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", env.Error)
}

func TestResponse_HeadersAndPage(t *testing.T) {
	t.Parallel()

	base := OK([]int{1})
	resp := base.
		WithHeader("Link", `<a>; rel="next"`).
		WithHeader("Link", `<b>; rel="previous"`).
		WithPage(Page{PageSize: 1, Next: "0:1:0"})
	assert.Nil(t, base.Header, "WithHeader copies")

	rec, env := serveResp(t, resp)
	assert.Equal(t, []string{`<a>; rel="next"`, `<b>; rel="previous"`}, rec.Header().Values("Link"))
	require.NotNil(t, env.Page)
	assert.Equal(t, "0:1:0", env.Page.Next)
	assert.Equal(t, 1, env.Page.PageSize)
}

func TestResponse_HeadersSurviveErrors(t *testing.T) {
	t.Parallel()

	rec, _ := serveResp(t, Error(perr.InvalidQueryf("bad")).WithHeader("X-Sentry-Direct-Hit", "0"))
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-Sentry-Direct-Hit"))
}
