// Package bind turns request input into validated structs
package bind

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator pairs the shared validator with its english translator
type Validator struct {
	V     *validator.Validate
	Trans ut.Translator
}

var (
	once   sync.Once
	shared *Validator
)

// Get returns the process wide validator
func Get() *Validator {
	once.Do(func() { shared = newValidator() })
	return shared
}

func newValidator() *Validator {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(paramName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// the defaults read "per_page must be 100 or less"; keep them short and uniform
	short(v, trans, "min", "{0} must be at least {1}")
	short(v, trans, "max", "{0} must be at most {1}")
	return &Validator{V: v, Trans: trans}
}

// paramName reports fields by the name the caller sent, query tag first
func paramName(f reflect.StructField) string {
	for _, key := range []string{"query", "json"} {
		tag, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if tag != "" && tag != "-" {
			return tag
		}
	}
	return f.Name
}

func short(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// FirstError returns the field and message of the first validation failure
func FirstError(err error) (field, msg string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Trans)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}
