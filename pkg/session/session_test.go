package session

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// TestNewSessionID verifies the stream id format
func TestNewSessionID(t *testing.T) {
	id, err := NewSessionID()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^stream_[0-9a-f]{16}$`), id)

	other, err := NewSessionID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

// TestCreateAndGet tests basic registry bookkeeping
func TestCreateAndGet(t *testing.T) {
	r := NewRegistry()
	q := &types.QueryRequest{WorkspaceID: "ws1", Query: []string{"q"}}

	sess, err := r.Create(q)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "ws1", got.Query.WorkspaceID)
	assert.False(t, got.IsComplete)
	assert.Empty(t, got.CurrentContent)

	_, ok = r.Get("stream_missing")
	assert.False(t, ok)
}

// TestAppendAndComplete tests content accumulation and completion marking
func TestAppendAndComplete(t *testing.T) {
	r := NewRegistry()
	sess, err := r.Create(&types.QueryRequest{})
	require.NoError(t, err)

	r.Append(sess.ID, "hello ")
	r.Append(sess.ID, "world")
	r.Complete(sess.ID)

	got, ok := r.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, "hello world", got.CurrentContent)
	assert.True(t, got.IsComplete)

	// Operations on unknown sessions are no-ops
	r.Append("stream_missing", "x")
	r.Complete("stream_missing")
}

// TestRemove tests explicit removal
func TestRemove(t *testing.T) {
	r := NewRegistry()
	sess, err := r.Create(&types.QueryRequest{})
	require.NoError(t, err)

	r.Remove(sess.ID)
	_, ok := r.Get(sess.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	// Removing twice is harmless
	r.Remove(sess.ID)
}

// TestTTLExpiry verifies sessions are reaped after the TTL elapses
func TestTTLExpiry(t *testing.T) {
	r := NewRegistryWithTTL(30 * time.Millisecond)
	sess, err := r.Create(&types.QueryRequest{})
	require.NoError(t, err)

	_, ok := r.Get(sess.ID)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := r.Get(sess.ID)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

// TestExpiresAt verifies the recorded expiry matches the TTL
func TestExpiresAt(t *testing.T) {
	r := NewRegistryWithTTL(time.Hour)
	sess, err := r.Create(&types.QueryRequest{})
	require.NoError(t, err)

	assert.WithinDuration(t, sess.CreatedAt.Add(time.Hour), sess.ExpiresAt, time.Second)
}
