package service

import (
	"context"
	"strconv"
	"strings"

	"eventscope/internal/core/search"
	"eventscope/internal/services/api/groupevents/domain"
)

// QueryResolver turns the raw query string into a Resolution for one issue
type QueryResolver struct{}

// Resolve parses raw and checks it against the issue and requested environments
//
// NoResults is only reported when an issue term names another issue or the
// environment terms cannot overlap envs. Issue terms that match are dropped
// from the predicate since the filter is scoped to the issue anyway.
func (QueryResolver) Resolve(_ context.Context, raw string, issue domain.Issue, envs []domain.Environment, v domain.Viewer) domain.Resolution {
	pred, err := search.Parse(raw)
	if err != nil {
		return domain.Invalid(err.Error())
	}

	for _, key := range []string{"issue", "issue.id"} {
		for _, t := range pred.ByKey(key) {
			ok, reason := issueTermMatches(t, issue)
			if reason != "" {
				return domain.Invalid(reason)
			}
			if !ok {
				return domain.NoResults()
			}
		}
	}
	pred = pred.Without("issue").Without("issue.id")

	if len(envs) > 0 {
		names := make(map[string]struct{}, len(envs))
		for _, e := range envs {
			names[e.Name] = struct{}{}
		}
		for _, t := range pred.ByKey("environment") {
			if !envTermOverlaps(t, names) {
				return domain.NoResults()
			}
		}
	}

	return domain.Ok(substituteMe(pred, v))
}

// issueTermMatches reports whether t can hold for events of issue
func issueTermMatches(t search.Term, issue domain.Issue) (bool, string) {
	if t.Op != search.OpEq && t.Op != search.OpIn {
		return false, "Invalid operator " + string(t.Op) + " for " + t.Key
	}
	hit := false
	for _, val := range t.Values {
		if sameIssue(val, issue) {
			hit = true
			break
		}
	}
	if t.Negated {
		return !hit, ""
	}
	return hit, ""
}

func sameIssue(val string, issue domain.Issue) bool {
	val = strings.TrimSpace(val)
	if id, err := strconv.ParseInt(val, 10, 64); err == nil {
		return id == issue.ID
	}
	return issue.ShortID != "" && strings.EqualFold(val, issue.QualifiedShortID())
}

// envTermOverlaps reports whether t leaves any of the requested environments
func envTermOverlaps(t search.Term, requested map[string]struct{}) bool {
	if t.Op != search.OpEq && t.Op != search.OpIn {
		return true
	}
	inTerm := make(map[string]struct{}, len(t.Values))
	for _, val := range t.Values {
		inTerm[val] = struct{}{}
	}
	for name := range requested {
		_, listed := inTerm[name]
		if listed != t.Negated {
			return true
		}
	}
	return false
}

// substituteMe rewrites user.id:me to the viewer's id
func substituteMe(pred search.Predicate, v domain.Viewer) search.Predicate {
	if v.UserID == "" || len(pred.ByKey("user.id")) == 0 {
		return pred
	}
	terms := pred.Terms()
	for i := range terms {
		if terms[i].Key != "user.id" {
			continue
		}
		for j, val := range terms[i].Values {
			if val == "me" {
				terms[i].Values[j] = v.UserID
			}
		}
	}
	return search.NewPredicate(terms...)
}
