package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := Get(ctx)
	assert.False(t, ok)

	id := (&Identity{UserID: 7, Username: "alice"}).WithRemoteIP(net.ParseIP("10.0.0.1"))
	ctx = Set(ctx, id)

	got, ok := Get(ctx)
	require.True(t, ok)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "10.0.0.1", got.RemoteIP.String())
}

func TestExpired(t *testing.T) {
	now := time.Now()

	assert.False(t, (&Identity{}).Expired(now))
	assert.False(t, (&Identity{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Identity{ExpiresAt: now.Add(-time.Minute)}).Expired(now))
}
