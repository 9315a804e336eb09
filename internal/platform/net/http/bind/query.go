package bind

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	perr "eventscope/internal/platform/errors"

	"github.com/go-playground/validator/v10"
)

// Query binds url query values into T using `query:"name"` tags, then validates it
// supported field kinds: string, []string, int, int64, bool and *bool
// a bool is true for "1" or "true" (case-insensitive), false otherwise
func Query[T any](r *http.Request) (T, error) {
	return Values[T](r.URL.Query())
}

// Values is Query over an already parsed url.Values
func Values[T any](vals url.Values) (T, error) {
	var zero, dst T

	rv := reflect.ValueOf(&dst).Elem()
	if rv.Kind() != reflect.Struct {
		return zero, perr.Newf(perr.ErrorCodeUnknown, "bind: %T is not a struct", dst)
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name := sf.Tag.Get("query")
		if name == "" || name == "-" || !sf.IsExported() {
			continue
		}
		raw, ok := vals[name]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := setField(rv.Field(i), raw); err != nil {
			return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s %v", name, err), name)
		}
	}

	if err := Get().V.Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			return zero, perr.Wrapf(err, perr.ErrorCodeUnknown, "bind: cannot validate %T", dst)
		}
		field, msg := FirstError(err)
		return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return dst, nil
}

// Truthy reports whether a flag value means on
func Truthy(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "true")
}

func setField(f reflect.Value, raw []string) error {
	last := raw[len(raw)-1]
	switch f.Kind() {
	case reflect.String:
		f.SetString(last)
	case reflect.Slice:
		if f.Type().Elem().Kind() != reflect.String {
			return errUnsupported
		}
		f.Set(reflect.ValueOf(append([]string(nil), raw...)))
	case reflect.Int, reflect.Int64, reflect.Int32:
		n, err := strconv.ParseInt(strings.TrimSpace(last), 10, 64)
		if err != nil {
			return errNotInt
		}
		f.SetInt(n)
	case reflect.Bool:
		f.SetBool(Truthy(last))
	case reflect.Pointer:
		if f.Type().Elem().Kind() != reflect.Bool {
			return errUnsupported
		}
		b := Truthy(last)
		f.Set(reflect.ValueOf(&b))
	default:
		return errUnsupported
	}
	return nil
}

type bindErr string

func (e bindErr) Error() string { return string(e) }

const (
	errUnsupported bindErr = "unsupported field type"
	errNotInt      bindErr = "must be an integer"
)
