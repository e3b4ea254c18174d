package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupChecker_MarkThenDuplicate(t *testing.T) {
	d := NewDedupChecker(time.Hour)
	ctx := context.Background()
	ts := time.UnixMilli(1714564800000)

	dup, err := d.IsDuplicate(ctx, "post.published", "p1", ts)
	require.NoError(t, err)
	assert.False(t, dup)

	require.NoError(t, d.Mark(ctx, "post.published", "p1", ts))

	dup, _ = d.IsDuplicate(ctx, "post.published", "p1", ts)
	assert.True(t, dup)

	// a different event, resource or timestamp is a new delivery
	dup, _ = d.IsDuplicate(ctx, "post.edited", "p1", ts)
	assert.False(t, dup)
	dup, _ = d.IsDuplicate(ctx, "post.published", "p2", ts)
	assert.False(t, dup)
	dup, _ = d.IsDuplicate(ctx, "post.published", "p1", ts.Add(time.Millisecond))
	assert.False(t, dup)

	assert.NoError(t, d.Ping(ctx))
}

func TestDedupChecker_Expires(t *testing.T) {
	d := NewDedupChecker(20 * time.Millisecond)
	ctx := context.Background()
	ts := time.Now()

	require.NoError(t, d.Mark(ctx, "member.added", "m1", ts))
	assert.Eventually(t, func() bool {
		dup, _ := d.IsDuplicate(ctx, "member.added", "m1", ts)
		return !dup
	}, time.Second, 10*time.Millisecond)
}
