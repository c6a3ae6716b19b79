package sampling

import (
	"testing"

	"github.com/Noofbiz/seqvis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays a scripted sequence of draws.
type fixedSource struct {
	draws []int
	calls []int
}

func (f *fixedSource) Intn(n int) int {
	f.calls = append(f.calls, n)
	v := f.draws[0]
	f.draws = f.draws[1:]
	return v
}

func TestSelect_UsesInjectedSource(t *testing.T) {
	src := &fixedSource{draws: []int{3, 0}}
	s := NewSelector(src)

	idx, err := s.Select(5)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)

	idx, err = s.Select(7)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []int{5, 7}, src.calls)
}

func TestSelect_ZeroBatch(t *testing.T) {
	s := NewSeededSelector(1)
	_, err := s.Select(0)
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
	_, err = s.Select(-3)
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
}

func TestSelect_RejectsMisbehavingSource(t *testing.T) {
	s := NewSelector(&fixedSource{draws: []int{9}})
	_, err := s.Select(4)
	assert.ErrorIs(t, err, seqvis.ErrInvalidInput)
}

func TestSelect_AlwaysInRange(t *testing.T) {
	s := NewSeededSelector(12345)
	for _, n := range []int{1, 2, 3, 10, 257} {
		seen := make(map[int]bool)
		for i := 0; i < 2000; i++ {
			idx, err := s.Select(n)
			require.NoError(t, err)
			require.True(t, idx >= 0 && idx < n, "index %d out of [0, %d)", idx, n)
			seen[idx] = true
		}
		if n <= 10 {
			assert.Len(t, seen, n, "2000 uniform draws should hit every index of %d", n)
		}
	}
}

func TestSelect_SeedIsReproducible(t *testing.T) {
	a := NewSeededSelector(42)
	b := NewSeededSelector(42)
	for i := 0; i < 50; i++ {
		x, err := a.Select(1000)
		require.NoError(t, err)
		y, err := b.Select(1000)
		require.NoError(t, err)
		require.Equal(t, x, y)
	}
}

func TestNewSelector_NilSourceStillWorks(t *testing.T) {
	s := NewSelector(nil)
	idx, err := s.Select(1)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}
