// Copyright (c) 2025 The Pact developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

// StackedMap maintains maps in a stack.
// Each map inherits key/value of map that is at lower level.
// It acts as a map with save-restore/snapshot-revert manner.
type StackedMap struct {
	src         MapGetter
	levels      []*level
	keyRevision map[any][]int
}

type level struct {
	kvs     map[any]any
	journal []journalEntry
}

type journalEntry struct {
	key   any
	value any
}

// MapGetter defines getter method of map.
type MapGetter func(key any) (value any, exist bool, err error)

// New create an instance of StackedMap.
// src acts as source of data.
func New(src MapGetter) *StackedMap {
	sm := &StackedMap{
		src:         src,
		keyRevision: make(map[any][]int),
	}
	sm.Push()
	return sm
}

// Depth returns depth of stack.
func (sm *StackedMap) Depth() int {
	return len(sm.levels)
}

// Push pushes a new map on stack.
// It returns stack depth before push.
func (sm *StackedMap) Push() int {
	sm.levels = append(sm.levels, &level{kvs: make(map[any]any)})
	return len(sm.levels) - 1
}

// Pop pop the map at top of stack.
// It will revert all Put operations since last Push.
func (sm *StackedMap) Pop() {
	top := sm.levels[len(sm.levels)-1]
	for key := range top.kvs {
		revs := sm.keyRevision[key]
		revs = revs[:len(revs)-1]
		if len(revs) == 0 {
			delete(sm.keyRevision, key)
		} else {
			sm.keyRevision[key] = revs
		}
	}
	sm.levels = sm.levels[:len(sm.levels)-1]
}

// PopTo pop maps until stack depth reaches depth.
func (sm *StackedMap) PopTo(depth int) {
	for len(sm.levels) > depth {
		sm.Pop()
	}
}

// Get gets value for given key.
// The second return value indicates whether the given key is found.
func (sm *StackedMap) Get(key any) (any, bool, error) {
	if revs, ok := sm.keyRevision[key]; ok {
		lvl := sm.levels[revs[len(revs)-1]]
		if v, ok := lvl.kvs[key]; ok {
			return v, true, nil
		}
	}
	return sm.src(key)
}

// Put puts key value into map at stack top.
// It will panic if stack is empty.
func (sm *StackedMap) Put(key, value any) {
	rev := len(sm.levels) - 1
	top := sm.levels[rev]
	if _, ok := top.kvs[key]; !ok {
		sm.keyRevision[key] = append(sm.keyRevision[key], rev)
	}
	top.kvs[key] = value
	top.journal = append(top.journal, journalEntry{key, value})
}

// Journal traverses the journal of all Put operations in order.
// The traversal stops when cb returns false.
func (sm *StackedMap) Journal(cb func(key, value any) bool) {
	for _, lvl := range sm.levels {
		for _, e := range lvl.journal {
			if !cb(e.key, e.value) {
				return
			}
		}
	}
}
