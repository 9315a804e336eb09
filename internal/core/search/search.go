// Package search parses the issue event search grammar into a flat predicate
//
// The grammar is a whitespace separated list of terms that are AND-ed together:
//
//	key:value          equality
//	!key:value         negation
//	key:>value         comparisons (>, >=, <, <=)
//	key:[a, b, "c d"]  membership
//	key:"quoted value" values with spaces
//	tags[name]:value   tag lookups
//	has:key !has:key   presence
//	bare words         free text
package search

import (
	"strconv"
	"strings"
)

// Op is a term comparison operator
type Op string

// supported operators
const (
	OpEq  Op = "="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpIn  Op = "IN"
)

// Term is one filter clause; Key is empty for free text
type Term struct {
	Key     string
	Op      Op
	Values  []string
	Negated bool
}

// FreeText reports whether t is a bare text term
func (t Term) FreeText() bool { return t.Key == "" }

// Value is the first value, handy for single valued ops
func (t Term) Value() string {
	if len(t.Values) == 0 {
		return ""
	}
	return t.Values[0]
}

// TagName returns name for tags[name] keys
func (t Term) TagName() (string, bool) {
	if strings.HasPrefix(t.Key, "tags[") && strings.HasSuffix(t.Key, "]") {
		return t.Key[len("tags[") : len(t.Key)-1], true
	}
	return "", false
}

// String renders t back in grammar form
func (t Term) String() string {
	var b strings.Builder
	if t.Negated {
		b.WriteByte('!')
	}
	if t.FreeText() {
		b.WriteString(quoteIfNeeded(t.Value()))
		return b.String()
	}
	b.WriteString(t.Key)
	b.WriteByte(':')
	switch t.Op {
	case OpIn:
		b.WriteByte('[')
		for i, v := range t.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteIfNeeded(v))
		}
		b.WriteByte(']')
	case OpEq, "":
		b.WriteString(quoteIfNeeded(t.Value()))
	default:
		b.WriteString(string(t.Op))
		b.WriteString(quoteIfNeeded(t.Value()))
	}
	return b.String()
}

// Predicate is an immutable conjunction of terms
type Predicate struct {
	terms []Term
}

// NewPredicate copies terms into a predicate
func NewPredicate(terms ...Term) Predicate {
	out := make([]Term, len(terms))
	for i, t := range terms {
		t.Values = append([]string(nil), t.Values...)
		out[i] = t
	}
	return Predicate{terms: out}
}

// Empty matches everything
func (p Predicate) Empty() bool { return len(p.terms) == 0 }

// Len is the number of terms
func (p Predicate) Len() int { return len(p.terms) }

// Terms returns a copy of the terms
func (p Predicate) Terms() []Term {
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		t.Values = append([]string(nil), t.Values...)
		out[i] = t
	}
	return out
}

// ByKey returns copies of the terms with key
func (p Predicate) ByKey(key string) []Term {
	var out []Term
	for _, t := range p.terms {
		if t.Key == key {
			t.Values = append([]string(nil), t.Values...)
			out = append(out, t)
		}
	}
	return out
}

// Without returns a predicate minus the terms with key
func (p Predicate) Without(key string) Predicate {
	var keep []Term
	for _, t := range p.terms {
		if t.Key != key {
			keep = append(keep, t)
		}
	}
	return NewPredicate(keep...)
}

// String renders the predicate in grammar form
func (p Predicate) String() string {
	parts := make([]string, len(p.terms))
	for i, t := range p.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\",[]") {
		return strconv.Quote(s)
	}
	return s
}
