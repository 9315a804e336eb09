// Package testkit holds test helpers shared across packages
package testkit

import (
	"sync"
	"testing"
)

// seams are package globals; tests that swap one the others read take this lock
var serial sync.Mutex

// Swap sets *target to v until the test ends
func Swap[T any](t testing.TB, target *T, v T) {
	t.Helper()
	prev := *target
	*target = v
	t.Cleanup(func() { *target = prev })
}

// Serial holds the package lock until the test ends
func Serial(t testing.TB) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}
