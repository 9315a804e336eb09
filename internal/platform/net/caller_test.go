package net

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaller_RoundTrip(t *testing.T) {
	t.Parallel()

	_, ok := CallerFrom(context.Background())
	assert.False(t, ok)

	scopes := []string{"event:pii"}
	ctx := WithCaller(context.Background(), Caller{UserID: "u1", OrgID: 7, Scopes: scopes})
	scopes[0] = "mutated"

	c, ok := CallerFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, int64(7), c.OrgID)
	assert.True(t, c.Has("event:pii"), "scopes are copied on the way in")
	assert.False(t, c.Has("event:admin"))
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	base := context.Background()
	assert.Empty(t, RequestID(base))
	assert.Equal(t, base, WithRequestID(base, ""))
	assert.Equal(t, "rid-1", RequestID(WithRequestID(base, "rid-1")))
}
