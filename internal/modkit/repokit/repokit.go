// Package repokit is the seam repositories are written against
//
// Repos take a Queryer so the same code runs on the pool or inside a
// transaction; a Binder hands out one bound to whichever the caller holds.
package repokit

import "eventscope/internal/platform/store"

type (
	// Queryer runs statements on the pool or a transaction
	Queryer = store.RowQuerier

	// TxRunner is a Queryer that can also open a transaction
	TxRunner = store.TxRunner
)

// Binder binds a repo to a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc is a Binder from a constructor
type BindFunc[T any] func(Queryer) T

func (f BindFunc[T]) Bind(q Queryer) T { return f(RequireQueryer(q)) }

// RequireQueryer panics on nil so wiring mistakes fail at startup
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}
