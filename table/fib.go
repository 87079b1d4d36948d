package table

import (
	"sort"
	"sync"

	"github.com/ndnself/forwarder/enc"
)

// FibNextHopEntry is one ranked nexthop of a FIB entry.
type FibNextHopEntry struct {
	Nexthop uint64
	Cost    uint64
}

type fibEntry struct {
	component enc.Component
	name      enc.Name
	depth     int
	parent    *fibEntry
	children  map[uint64]*fibEntry
	nexthops  []*FibNextHopEntry
}

// FibTable is a longest-prefix-match Name -> nexthop-list tree, mirrored
// from the teacher's fw/table/fib-strategy-tree.go, trimmed to the
// nexthop-ranking concern the strategy actually needs (no per-prefix
// strategy selection, since this repository has exactly one strategy).
type FibTable struct {
	mu   sync.RWMutex
	root *fibEntry
}

func NewFibTable() *FibTable {
	return &FibTable{
		root: &fibEntry{children: make(map[uint64]*fibEntry)},
	}
}

func (f *fibEntry) findLongestPrefix(name enc.Name) *fibEntry {
	if len(name) > f.depth {
		if child := f.children[enc.At(name, f.depth).Hash()]; child != nil {
			return child.findLongestPrefix(name)
		}
	}
	return f
}

func (f *FibTable) fillTreeToPrefix(name enc.Name) *fibEntry {
	entry := f.root.findLongestPrefix(name)
	for depth := entry.depth; depth < len(name); depth++ {
		c := name[depth]
		child := &fibEntry{
			component: c,
			name:      name[:depth+1].Clone(),
			depth:     depth + 1,
			parent:    entry,
			children:  make(map[uint64]*fibEntry),
		}
		entry.children[c.Hash()] = child
		entry = child
	}
	return entry
}

// Lookup performs a longest-prefix match and returns the ranked (ascending
// cost) nexthop list in effect for name, or nil if no ancestor has routes.
func (f *FibTable) Lookup(name enc.Name) []*FibNextHopEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entry := f.root.findLongestPrefix(name)
	for entry != nil {
		if len(entry.nexthops) > 0 {
			out := make([]*FibNextHopEntry, len(entry.nexthops))
			copy(out, entry.nexthops)
			return out
		}
		entry = entry.parent
	}
	return nil
}

// AddNexthop installs or updates a nexthop for prefix, re-sorting the
// ranked list ascending by cost (§3: "sorted ascending by cost").
func (f *FibTable) AddNexthop(prefix enc.Name, faceID uint64, cost uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry := f.fillTreeToPrefix(prefix)
	for _, nh := range entry.nexthops {
		if nh.Nexthop == faceID {
			nh.Cost = cost
			f.sort(entry)
			return
		}
	}
	entry.nexthops = append(entry.nexthops, &FibNextHopEntry{Nexthop: faceID, Cost: cost})
	f.sort(entry)
}

func (f *FibTable) sort(entry *fibEntry) {
	sort.Slice(entry.nexthops, func(i, j int) bool {
		return entry.nexthops[i].Cost < entry.nexthops[j].Cost
	})
}

// RemoveNexthop deletes a single nexthop from prefix's FIB entry.
func (f *FibTable) RemoveNexthop(prefix enc.Name, faceID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry := f.root.findLongestPrefix(prefix)
	if len(entry.name) != len(prefix) {
		return
	}
	for i, nh := range entry.nexthops {
		if nh.Nexthop == faceID {
			entry.nexthops = append(entry.nexthops[:i], entry.nexthops[i+1:]...)
			return
		}
	}
}

// ClearNexthops removes every nexthop under prefix's exact-match entry.
func (f *FibTable) ClearNexthops(prefix enc.Name) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry := f.root.findLongestPrefix(prefix)
	if len(entry.name) == len(prefix) {
		entry.nexthops = nil
	}
}
