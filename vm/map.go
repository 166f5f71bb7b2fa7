package vm

import (
	"sort"
)

// Map is a reference-counted association from scalar keys to values, kept
// sorted by key. String keys compare case-sensitively.
type Map struct {
	header
	keys []Value
	vals []Value
}

// NewMap creates an empty map with a single reference.
func NewMap() Value {
	heap.Maps++
	return Value{typ: TypeMap, obj: &Map{header: header{refs: 1}}}
}

// Map returns the map of v.
// Panics if v is not a map.
func (v Value) Map() *Map {
	if v.typ != TypeMap {
		panic("Value.Map: not a map")
	}
	return v.obj.(*Map)
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

func (m *Map) search(key Value) (int, bool) {
	i := sort.Search(len(m.keys), func(i int) bool {
		return Compare(m.keys[i], key, true) >= 0
	})
	return i, i < len(m.keys) && Compare(m.keys[i], key, true) == 0
}

// MapLength returns the number of entries of m.
func MapLength(m Value) int {
	return m.Map().Len()
}

// MapInsert binds key to value, replacing any previous binding. A map held
// only by the caller is changed in place. key must be a scalar.
// Consumes m, key and value.
func MapInsert(m, key, value Value) Value {
	if key.typ == TypeList || key.typ == TypeMap {
		panic("MapInsert: collection used as key")
	}
	if Refcount(m) > 1 {
		dup := mapDup(m)
		Release(m)
		m = dup
	}
	mp := m.Map()
	i, found := mp.search(key)
	if found {
		Release(key)
		Release(mp.vals[i])
		mp.vals[i] = value
		return m
	}
	mp.keys = append(mp.keys, Value{})
	mp.vals = append(mp.vals, Value{})
	copy(mp.keys[i+1:], mp.keys[i:])
	copy(mp.vals[i+1:], mp.vals[i:])
	mp.keys[i] = key
	mp.vals[i] = value
	return m
}

// MapLookup returns the value bound to key without taking a reference.
func MapLookup(m, key Value) (Value, bool) {
	mp := m.Map()
	if i, found := mp.search(key); found {
		return mp.vals[i], true
	}
	return Value{}, false
}

// MapForEach calls fn for each entry in key order, stopping at and
// returning the first non-zero result. m is not consumed.
func MapForEach(m Value, fn func(key, value Value, first bool) int) int {
	mp := m.Map()
	for i := range mp.keys {
		if ret := fn(mp.keys[i], mp.vals[i], i == 0); ret != 0 {
			return ret
		}
	}
	return 0
}

// MapEqual compares two maps entry by entry. Neither is consumed.
func MapEqual(lhs, rhs Value, caseMatters bool) bool {
	a, b := lhs.Map(), rhs.Map()
	if a == b {
		return true
	}
	if len(a.keys) != len(b.keys) {
		return false
	}
	for i := range a.keys {
		if !Equal(a.keys[i], b.keys[i], caseMatters) || !Equal(a.vals[i], b.vals[i], caseMatters) {
			return false
		}
	}
	return true
}

func mapDup(m Value) Value {
	src := m.Map()
	dup := NewMap()
	d := dup.Map()
	d.keys = make([]Value, len(src.keys))
	d.vals = make([]Value, len(src.vals))
	refCopy(d.keys, src.keys)
	refCopy(d.vals, src.vals)
	return dup
}

func destroyMap(m *Map) {
	releaseAll(m.keys)
	releaseAll(m.vals)
	m.keys, m.vals = nil, nil
	heap.Maps--
}

func mapSizeOf(m *Map) int {
	size := SlotBytes
	for i := range m.keys {
		size += ValueBytes(m.keys[i]) + ValueBytes(m.vals[i])
	}
	return size
}
