package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSQLiteStoreRoundTrip verifies recorded outcomes come back newest
// first with their fields intact.
func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.RecordOutcome(OutcomeRecord{
		RequestID: "req-1",
		Route:     "items.create",
		Method:    "POST",
		Kind:      "success",
		Success:   true,
		Status:    200,
		Duration:  12 * time.Millisecond,
	}))
	require.NoError(t, s.RecordOutcome(OutcomeRecord{
		RequestID: "req-2",
		Route:     "items.create",
		Method:    "POST",
		Kind:      "reject",
		Success:   false,
		Status:    401,
		Error:     "no token",
		Duration:  3 * time.Millisecond,
	}))

	recs, err := s.RecentOutcomes(10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "req-2", recs[0].RequestID)
	assert.False(t, recs[0].Success)
	assert.Equal(t, 401, recs[0].Status)
	assert.Equal(t, "no token", recs[0].Error)

	assert.Equal(t, "req-1", recs[1].RequestID)
	assert.True(t, recs[1].Success)
	assert.Equal(t, 12*time.Millisecond, recs[1].Duration)
	assert.False(t, recs[1].CreatedAt.IsZero())
}

// TestSQLiteStoreLimit verifies the limit is applied and defaults kick
// in for nonsense values.
func TestSQLiteStoreLimit(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordOutcome(OutcomeRecord{
			RequestID: "req",
			Route:     "r",
			Method:    "GET",
			Kind:      "success",
			Success:   true,
			Status:    200,
		}))
	}

	recs, err := s.RecentOutcomes(3)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	recs, err = s.RecentOutcomes(0)
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

// TestSQLiteStoreRequiresPath verifies the empty-path error.
func TestSQLiteStoreRequiresPath(t *testing.T) {
	_, err := NewSQLiteStore("")
	assert.Error(t, err)
}

// TestMemoryCacheSetGet verifies basic cache behavior.
func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	_, ok := c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", map[string]any{"cached": true}))
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"cached": true}, v)

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)
}

// TestMemoryCacheExpiry verifies entries expire after the TTL.
func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Set("k", "v"))
	_, ok := c.Get("k")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

// TestMemoryCacheClosedSetIsNoop verifies writes after Close don't panic.
func TestMemoryCacheClosedSetIsNoop(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	require.NoError(t, c.Close())
	assert.NoError(t, c.Set("k", "v"))
}
