package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Expired(t *testing.T) {
	now := time.Now()

	assert.False(t, Entry[int]{Value: 1}.Expired(now), "zero expiration never expires")
	assert.False(t, Entry[int]{ExpiresAt: now.Add(time.Second)}.Expired(now))
	assert.True(t, Entry[int]{ExpiresAt: now}.Expired(now), "item is gone at its expiration instant")
	assert.True(t, Entry[int]{ExpiresAt: now.Add(-time.Nanosecond)}.Expired(now))
}

func TestTable_SetGetRemove(t *testing.T) {
	tbl := New[string, int](4)

	tbl.Set(`a`, Entry[int]{Value: 1})
	tbl.Set(`a`, Entry[int]{Value: 2})
	require.Equal(t, 1, tbl.Len())

	entry, ok := tbl.Get(`a`)
	require.True(t, ok)
	assert.Equal(t, 2, entry.Value)

	tbl.Remove(`a`)
	tbl.Remove(`missing`)
	_, ok = tbl.Get(`a`)
	assert.False(t, ok)
	assert.Zero(t, tbl.Len())
}

func TestTable_RemoveIfExpired(t *testing.T) {
	now := time.Now()
	tbl := New[string, int](0)
	tbl.Set(`stale`, Entry[int]{Value: 1, ExpiresAt: now.Add(-time.Second)})
	tbl.Set(`fresh`, Entry[int]{Value: 2, ExpiresAt: now.Add(time.Second)})
	tbl.Set(`forever`, Entry[int]{Value: 3})

	assert.True(t, tbl.RemoveIfExpired(`stale`, now))
	assert.False(t, tbl.RemoveIfExpired(`stale`, now))
	assert.False(t, tbl.RemoveIfExpired(`fresh`, now))
	assert.False(t, tbl.RemoveIfExpired(`forever`, now))
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_ExpirationsAndClear(t *testing.T) {
	now := time.Now()
	tbl := New[int, string](0)
	tbl.Set(1, Entry[string]{Value: `one`, ExpiresAt: now})
	tbl.Set(2, Entry[string]{Value: `two`})

	exp := tbl.Expirations()
	require.Len(t, exp, 1)
	assert.Equal(t, now, exp[1])

	tbl.Clear()
	assert.Zero(t, tbl.Len())
}
