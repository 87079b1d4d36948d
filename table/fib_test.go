package table

import (
	"testing"

	"github.com/ndnself/forwarder/enc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFibTableLongestPrefixMatch(t *testing.T) {
	fib := NewFibTable()
	fib.AddNexthop(enc.NameFromStr("/a"), 1, 10)
	fib.AddNexthop(enc.NameFromStr("/a/b"), 2, 10)

	nh := fib.Lookup(enc.NameFromStr("/a/b/c"))
	require.Len(t, nh, 1)
	assert.Equal(t, uint64(2), nh[0].Nexthop)

	nh = fib.Lookup(enc.NameFromStr("/a/x"))
	require.Len(t, nh, 1)
	assert.Equal(t, uint64(1), nh[0].Nexthop)

	nh = fib.Lookup(enc.NameFromStr("/nowhere"))
	assert.Nil(t, nh)
}

func TestFibTableSortedAscendingByCost(t *testing.T) {
	fib := NewFibTable()
	fib.AddNexthop(enc.NameFromStr("/a"), 1, 50)
	fib.AddNexthop(enc.NameFromStr("/a"), 2, 10)
	fib.AddNexthop(enc.NameFromStr("/a"), 3, 30)

	nh := fib.Lookup(enc.NameFromStr("/a"))
	require.Len(t, nh, 3)
	assert.Equal(t, uint64(2), nh[0].Nexthop)
	assert.Equal(t, uint64(3), nh[1].Nexthop)
	assert.Equal(t, uint64(1), nh[2].Nexthop)
}

func TestFibTableAddNexthopUpdatesExistingCost(t *testing.T) {
	fib := NewFibTable()
	fib.AddNexthop(enc.NameFromStr("/a"), 1, 50)
	fib.AddNexthop(enc.NameFromStr("/a"), 1, 5)

	nh := fib.Lookup(enc.NameFromStr("/a"))
	require.Len(t, nh, 1)
	assert.Equal(t, uint64(5), nh[0].Cost)
}

func TestFibTableRemoveAndClearNexthops(t *testing.T) {
	fib := NewFibTable()
	fib.AddNexthop(enc.NameFromStr("/a"), 1, 10)
	fib.AddNexthop(enc.NameFromStr("/a"), 2, 20)

	fib.RemoveNexthop(enc.NameFromStr("/a"), 1)
	nh := fib.Lookup(enc.NameFromStr("/a"))
	require.Len(t, nh, 1)
	assert.Equal(t, uint64(2), nh[0].Nexthop)

	fib.ClearNexthops(enc.NameFromStr("/a"))
	assert.Nil(t, fib.Lookup(enc.NameFromStr("/a")))
}
