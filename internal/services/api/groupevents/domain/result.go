package domain

import "eventscope/internal/core/search"

// ResolutionKind tags a Resolution
type ResolutionKind int

// resolution outcomes
const (
	ResolvedOK ResolutionKind = iota
	ResolvedNoResults
	ResolvedInvalid
)

// Resolution is the outcome of resolving a raw query against an issue
// callers switch on Kind; only ResolvedOK carries a predicate and only
// ResolvedInvalid carries a reason
type Resolution struct {
	kind   ResolutionKind
	pred   search.Predicate
	reason string
}

// Ok wraps a usable predicate
func Ok(p search.Predicate) Resolution { return Resolution{kind: ResolvedOK, pred: p} }

// NoResults means no event can match
func NoResults() Resolution { return Resolution{kind: ResolvedNoResults} }

// Invalid carries the parser message
func Invalid(reason string) Resolution { return Resolution{kind: ResolvedInvalid, reason: reason} }

// Kind reports the outcome
func (r Resolution) Kind() ResolutionKind { return r.kind }

// Predicate is the resolved predicate, empty unless Kind is ResolvedOK
func (r Resolution) Predicate() search.Predicate { return r.pred }

// Reason is the parser message for ResolvedInvalid
func (r Resolution) Reason() string { return r.reason }
