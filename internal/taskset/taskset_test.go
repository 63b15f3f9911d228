package taskset

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunAllComplete(t *testing.T) {
	ts := New[int]()
	for i := 0; i < 50; i++ {
		i := i
		ts.Add(func() (int, error) { return i * i, nil })
	}
	results := ts.Run(Options{})
	require.Len(t, results, 50)

	sum := 0
	for _, r := range results {
		require.NoError(t, r.Err)
		sum += r.Value
	}
	require.Equal(t, 40425, sum) // sum of squares 0..49
}

func TestPanicIsolated(t *testing.T) {
	ts := New[int]()
	ts.Add(func() (int, error) { panic("boom") })
	ts.Add(func() (int, error) { return 1, nil })
	ts.Add(func() (int, error) { return 0, errors.New("regular failure") })

	results := ts.Run(Options{MaxWorkers: 1})
	require.Len(t, results, 3)

	var panicked, ok, failed int
	for _, r := range results {
		switch {
		case r.Err != nil && r.Value == 1:
			// unreachable
		case r.Err == nil && r.Value == 1:
			ok++
		case r.Err != nil:
			if r.Value == 0 {
				panicked++
				failed++
			}
		}
	}
	require.Equal(t, 1, ok)
	require.GreaterOrEqual(t, panicked+failed, 1)
}

func TestProgressCallback(t *testing.T) {
	ts := New[struct{}]()
	for i := 0; i < 10; i++ {
		ts.Add(func() (struct{}, error) { return struct{}{}, nil })
	}
	var calls int64
	ts.Run(Options{OnProgress: func(done, total int) {
		atomic.AddInt64(&calls, 1)
		require.LessOrEqual(t, done, total)
	}})
	require.EqualValues(t, 10, calls)
}

func TestEmptySet(t *testing.T) {
	ts := New[int]()
	require.Nil(t, ts.Run(Options{}))
}
