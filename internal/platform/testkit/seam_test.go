package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var seamTarget = func() string { return "real" }

func TestSwap_RestoresOnCleanup(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &seamTarget, func() string { return "fake" })
		assert.Equal(t, "fake", seamTarget())
	})
	assert.Equal(t, "real", seamTarget())
}

func TestSerial_Releases(t *testing.T) {
	for range 2 {
		t.Run("locked", func(t *testing.T) {
			Serial(t)
		})
	}
}
