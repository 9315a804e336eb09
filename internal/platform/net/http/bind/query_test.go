package bind

import (
	"errors"
	"net/http/httptest"
	"reflect"
	"testing"

	perr "eventscope/internal/platform/errors"
)

type listQuery struct {
	Query   string   `query:"query" json:"query"`
	Envs    []string `query:"environment" json:"environment"`
	Full    bool     `query:"full" json:"full"`
	Sample  *bool    `query:"sample" json:"sample"`
	PerPage int      `query:"per_page" json:"per_page" validate:"omitempty,min=1,max=100"`
	Ignored string   `json:"ignored"`
}

func TestQuery_Binds(t *testing.T) {
	r := httptest.NewRequest("GET", "/?query=is:unresolved&environment=prod&environment=staging&full=TRUE&sample=0&per_page=25&ignored=x", nil)

	got, err := Query[listQuery](r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Query != "is:unresolved" || !got.Full || got.PerPage != 25 {
		t.Fatalf("got %+v", got)
	}
	if len(got.Envs) != 2 || got.Envs[1] != "staging" {
		t.Fatalf("envs = %v", got.Envs)
	}
	if got.Sample == nil || *got.Sample {
		t.Fatalf("sample should be a false pointer")
	}
	if got.Ignored != "" {
		t.Fatalf("untagged field must not bind")
	}
}

func TestQuery_Errors(t *testing.T) {
	cases := []struct {
		name  string
		url   string
		field string
	}{
		{"not an int", "/?per_page=abc", "per_page"},
		{"too large", "/?per_page=101", "per_page"},
		{"too small", "/?per_page=0", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Query[listQuery](httptest.NewRequest("GET", tc.url, nil))
			if tc.field == "" {
				// zero is omitted by omitempty
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error")
			}
			if perr.CodeOf(err) != perr.ErrorCodeValidation {
				t.Fatalf("code = %v", perr.CodeOf(err))
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	for in, want := range map[string]bool{"1": true, "true": true, " True ": true, "0": false, "yes": false, "": false} {
		if Truthy(in) != want {
			t.Fatalf("Truthy(%q) != %v", in, want)
		}
	}
}

func TestQuery_MessagesUseParamNames(t *testing.T) {
	_, err := Query[listQuery](httptest.NewRequest("GET", "/?per_page=500", nil))
	e, ok := perr.As(err)
	if !ok {
		t.Fatalf("expected coded error, got %v", err)
	}
	if e.Field() != "per_page" || e.Message() != "per_page must be at most 100" {
		t.Fatalf("field %q message %q", e.Field(), e.Message())
	}
}

func TestQuery_NotAStruct(t *testing.T) {
	if _, err := Query[int](httptest.NewRequest("GET", "/", nil)); err == nil {
		t.Fatalf("expected error for non struct target")
	}
}

func TestParamName(t *testing.T) {
	type s struct {
		A string `query:"statsPeriod" json:"stats_period"`
		B string `json:"cursor,omitempty"`
		C string `json:"-"`
	}
	rt := reflect.TypeOf(s{})
	for i, want := range []string{"statsPeriod", "cursor", "C"} {
		if got := paramName(rt.Field(i)); got != want {
			t.Fatalf("field %d: got %q want %q", i, got, want)
		}
	}
}

func TestFirstError(t *testing.T) {
	if f, m := FirstError(nil); f != "" || m != "" {
		t.Fatalf("nil error should be empty")
	}
	if _, m := FirstError(errors.New("plain")); m != "plain" {
		t.Fatalf("plain error message lost: %q", m)
	}
}
