package btree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func intLess(a, b any) bool {
	return a.(int) < b.(int)
}

func TestInsertAndFind(t *testing.T) {
	tr := New(intLess)
	for i := 0; i < 50; i++ {
		tr.Insert(i, i*10)
	}
	for i := 0; i < 50; i++ {
		pos, ok := tr.Find(i)
		require.True(t, ok)
		require.Equal(t, i*10, pos)
	}
}

func TestFindAbsent(t *testing.T) {
	tr := New(intLess)
	tr.Insert(1, 100)
	_, ok := tr.Find(2)
	require.False(t, ok)
}

func TestInsertShuffledOrder(t *testing.T) {
	tr := New(intLess)
	keys := rand.New(rand.NewSource(7)).Perm(200)
	for _, k := range keys {
		tr.Insert(k, k+1)
	}
	for _, k := range keys {
		pos, ok := tr.Find(k)
		require.True(t, ok)
		require.Equal(t, k+1, pos)
	}
}

func TestKeysAscending(t *testing.T) {
	tr := New(intLess)
	for _, k := range []int{5, 3, 8, 1, 9, 2} {
		tr.Insert(k, k)
	}
	positions := tr.Keys()
	require.Len(t, positions, 6)
	require.Equal(t, []int{1, 2, 3, 5, 8, 9}, positions)
}
