package planar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHandle uint32

func TestStoreAddGet(t *testing.T) {
	s := MakeStore[testHandle, string]()

	h := s.Add("alpha")
	v, ok := s.Get(h)
	require.True(t, ok)
	assert.Equal(t, "alpha", *v)

	s.Remove(h)
	_, ok = s.Get(h)
	assert.False(t, ok, "removed handle must not resolve")
}

func TestStoreSwapRemove(t *testing.T) {
	s := MakeStore[testHandle, string]()

	h1 := s.Add("A")
	h2 := s.Add("B")
	h3 := s.Add("C")

	s.Remove(h2)

	v1, ok := s.Get(h1)
	require.True(t, ok)
	assert.Equal(t, "A", *v1)

	_, ok = s.Get(h2)
	assert.False(t, ok)

	v3, ok := s.Get(h3)
	require.True(t, ok)
	assert.Equal(t, "C", *v3)

	require.Equal(t, 2, s.Len())
	seen := map[string]bool{}
	for i := 0; i < s.Len(); i++ {
		seen[*s.At(i)] = true
	}
	assert.Equal(t, map[string]bool{"A": true, "C": true}, seen)
}

func TestStoreRemoveLast(t *testing.T) {
	s := MakeStore[testHandle, int]()
	h1 := s.Add(1)
	h2 := s.Add(2)

	s.Remove(h2)
	require.Equal(t, 1, s.Len())

	v, ok := s.Get(h1)
	require.True(t, ok)
	assert.Equal(t, 1, *v)
}

func TestStoreRemoveUnknown(t *testing.T) {
	s := MakeStore[testHandle, int]()
	s.Add(1)
	s.Remove(testHandle(999))
	assert.Equal(t, 1, s.Len())
}

func TestStoreHandlesNeverReused(t *testing.T) {
	s := MakeStore[testHandle, int]()

	handles := map[testHandle]bool{}
	for i := 0; i < 50; i++ {
		h := s.Add(i)
		if handles[h] {
			t.Fatalf("handle %d minted twice", h)
		}
		handles[h] = true
		if i%2 == 0 {
			s.Remove(h)
		}
	}
}

func TestStoreHandleAtInverse(t *testing.T) {
	s := MakeStore[testHandle, int]()
	s.Add(10)
	s.Add(20)

	for i := 0; i < s.Len(); i++ {
		h := s.HandleAt(i)
		v, ok := s.Get(h)
		require.True(t, ok)
		assert.Equal(t, *s.At(i), *v)
	}
}

func TestStoreClearResetsHandles(t *testing.T) {
	s := MakeStore[testHandle, int]()
	first := s.Add(1)
	s.Add(2)

	s.Clear()
	assert.Equal(t, 0, s.Len())

	again := s.Add(3)
	assert.Equal(t, first, again, "clear should reset handle minting to 0")
}
