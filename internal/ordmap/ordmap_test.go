package ordmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSortsByValueAndIndexesByKey(t *testing.T) {
	m := New([]Entry[string, int]{
		{Key: "c", Value: 3},
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
	}, func(a, b int) bool { return a < b })

	require.Equal(t, []string{"a", "b", "c"}, m.Keys())
	require.Equal(t, []int{1, 2, 3}, m.Values())

	idx, ok := m.IndexOf("b")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	v, ok := m.Get("c")
	require.True(t, ok)
	require.Equal(t, 3, v)

	_, ok = m.Get("z")
	require.False(t, ok)
}

func TestEmpty(t *testing.T) {
	m := Empty[string, int]()
	require.Equal(t, 0, m.Len())
	_, ok := m.Get("x")
	require.False(t, ok)
}

func TestJSONRoundTrip(t *testing.T) {
	m := New([]Entry[string, int]{
		{Key: "c", Value: 3},
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
	}, func(a, b int) bool { return a < b })

	b, err := json.Marshal(m)
	require.NoError(t, err)

	var out Map[string, int]
	require.NoError(t, json.Unmarshal(b, &out))

	require.Equal(t, m.Keys(), out.Keys())
	require.Equal(t, m.Values(), out.Values())
	idx, ok := out.IndexOf("b")
	require.True(t, ok)
	require.Equal(t, 1, idx)
}
