package vm

// List is a reference-counted buffer of values, indexed 1..Len().
//
// Lists are logically immutable: every operation that changes a list either
// proves the caller holds the only reference and mutates in place, or builds
// a private copy. Operations documented as consuming an operand take over the
// caller's reference to it; the caller owns the single returned value.
type List struct {
	header
	color Color
	memo  int // memoized ListSizeOf result, 0 when stale
	elems []Value
}

// emptyList is returned by every construction of a zero-length list. It holds
// one permanent reference of its own so balanced callers never free it.
var emptyList = &List{header: header{refs: 1}, color: Green}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// At returns the element at 1-based pos without taking a reference.
func (l *List) At(pos int) Value { return l.elems[pos-1] }

// Init stores v at 1-based pos of a freshly created list, taking ownership
// of v. It does not release the previous slot content.
func (l *List) Init(pos int, v Value) {
	if l == emptyList {
		panic("List.Init: cannot fill the shared empty list")
	}
	l.elems[pos-1] = v
}

// Elements returns the backing slice. Callers must not modify it.
func (l *List) Elements() []Value { return l.elems }

// List returns the list buffer of v.
// Panics if v is not a list.
func (v Value) List() *List {
	if v.typ != TypeList {
		panic("Value.List: not a list")
	}
	return v.obj.(*List)
}

// SameBuffer reports whether a and b are lists backed by the same buffer.
func SameBuffer(a, b Value) bool {
	return a.typ == TypeList && b.typ == TypeList && a.obj == b.obj
}

// IsEmptyList reports whether v is the shared empty list.
func IsEmptyList(v Value) bool {
	return v.typ == TypeList && v.obj == emptyList
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// NewList creates a list of the given length. A zero length returns the
// shared empty list without allocating. Otherwise the slots are zero and
// must be filled with Init before the list is used.
func NewList(size int) Value {
	if size == 0 {
		emptyList.refs++
		return Value{typ: TypeList, obj: emptyList}
	}
	l := &List{header: header{refs: 1}, color: Yellow, elems: make([]Value, size)}
	heap.Lists++
	return Value{typ: TypeList, obj: l}
}

// NewListOf creates a list holding vals, taking ownership of each.
func NewListOf(vals ...Value) Value {
	list := NewList(len(vals))
	copy(list.List().elems, vals)
	return list
}

// ListDup returns a new list sharing every element of list, with the source
// color carried over. list is not consumed.
func ListDup(list Value) Value {
	src := list.List()
	dup := NewList(len(src.elems))
	d := dup.List()
	refCopy(d.elems, src.elems)
	SetColor(d, src.color)
	return dup
}

// ListLength returns the number of elements of list.
func ListLength(list Value) int {
	return list.List().Len()
}

// ListForEach calls fn for each element in order, with first set on the
// initial call. It stops at and returns the first non-zero result. list is
// not consumed and no reference counts change.
func ListForEach(list Value, fn func(elem Value, first bool) int) int {
	for i, v := range list.List().elems {
		if ret := fn(v, i == 0); ret != 0 {
			return ret
		}
	}
	return 0
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// ListSet replaces the element at pos with value. A list held only by the
// caller is changed in place; otherwise the caller's reference moves to a
// private copy and other holders keep the original. pos must be valid.
// Consumes list and value.
func ListSet(list, value Value, pos int) Value {
	if Refcount(list) > 1 {
		dup := ListDup(list)
		Release(list)
		list = dup
	}
	l := list.List()
	l.memo = 0
	Release(l.elems[pos-1])
	l.elems[pos-1] = value
	SetColor(l, Yellow)
	return list
}

// ListInsert inserts value before pos. Out of range positions are clamped
// to the ends. Consumes list and value.
func ListInsert(list, value Value, pos int) Value {
	n := list.List().Len()
	if pos <= 0 {
		pos = 1
	} else if pos > n {
		pos = n + 1
	}
	return doInsert(list, value, pos)
}

// ListAppend adds value at the end of list. Consumes list and value.
func ListAppend(list, value Value) Value {
	return doInsert(list, value, list.List().Len()+1)
}

// doInsert places value at pos, which must lie in [1, Len()+1]. Appending to
// a list held only by the caller grows the buffer in place, which skips the
// per-element Ref/Release of the general copy.
func doInsert(list, value Value, pos int) Value {
	l := list.List()
	size := len(l.elems) + 1

	if l.refs == 1 && pos == size {
		l.elems = append(l.elems, value)
		l.memo = 0
		SetColor(l, Yellow)
		return list
	}

	result := NewList(size)
	r := result.List()
	refCopy(r.elems[:pos-1], l.elems[:pos-1])
	r.elems[pos-1] = value
	refCopy(r.elems[pos:], l.elems[pos-1:])

	Release(list)
	SetColor(r, Yellow)
	return result
}

// ListDelete removes the element at pos, which must be valid. A fresh buffer
// is always built. Consumes list.
func ListDelete(list Value, pos int) Value {
	l := list.List()
	size := len(l.elems) - 1

	result := NewList(size)
	r := result.List()
	refCopy(r.elems[:pos-1], l.elems[:pos-1])
	refCopy(r.elems[pos-1:], l.elems[pos:])

	Release(list)
	if size > 0 {
		SetColor(r, Yellow)
	}
	return result
}

// ListConcat returns the elements of first followed by those of second.
// Consumes both.
func ListConcat(first, second Value) Value {
	a, b := first.List(), second.List()
	size := len(a.elems) + len(b.elems)

	result := NewList(size)
	r := result.List()
	refCopy(r.elems[:len(a.elems)], a.elems)
	refCopy(r.elems[len(a.elems):], b.elems)

	Release(first)
	Release(second)
	if size > 0 {
		SetColor(r, Yellow)
	}
	return result
}

// ListRangeSet replaces base[from..to] with the elements of value. The kept
// prefix is base[1..from-1] and the kept suffix is base[to+1..]; either may
// be empty. Consumes base and value.
func ListRangeSet(base Value, from, to int, value Value) Value {
	b, v := base.List(), value.List()
	baseLen := len(b.elems)

	lenLeft := 0
	if from > 1 {
		lenLeft = from - 1
	}
	lenRight := 0
	if baseLen > to {
		lenRight = baseLen - to
	}
	size := lenLeft + len(v.elems) + lenRight

	result := NewList(size)
	r := result.List()
	refCopy(r.elems[:lenLeft], b.elems[:lenLeft])
	refCopy(r.elems[lenLeft:lenLeft+len(v.elems)], v.elems)
	refCopy(r.elems[lenLeft+len(v.elems):], b.elems[to:to+lenRight])

	Release(base)
	Release(value)
	if size > 0 {
		SetColor(r, Yellow)
	}
	return result
}

// Sublist returns list[lower..upper]. An inverted range yields the shared
// empty list. Consumes list.
func Sublist(list Value, lower, upper int) Value {
	if lower > upper {
		Release(list)
		return NewList(0)
	}
	l := list.List()
	result := NewList(upper - lower + 1)
	r := result.List()
	refCopy(r.elems, l.elems[lower-1:upper])

	Release(list)
	SetColor(r, Yellow)
	return result
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// ListEqual compares two lists element by element. Lists sharing a buffer are
// equal without inspection. Neither operand is consumed.
func ListEqual(lhs, rhs Value, caseMatters bool) bool {
	if SameBuffer(lhs, rhs) {
		return true
	}
	a, b := lhs.List(), rhs.List()
	if len(a.elems) != len(b.elems) {
		return false
	}
	for i := range a.elems {
		if !Equal(a.elems[i], b.elems[i], caseMatters) {
			return false
		}
	}
	return true
}

// IsMember returns the 1-based position of the first element equal to value,
// or 0. Neither operand is consumed.
func IsMember(value, list Value, caseMatters bool) int {
	for i, v := range list.List().elems {
		if Equal(value, v, caseMatters) {
			return i + 1
		}
	}
	return 0
}

// ListSizeOf returns the accounting size of l: one slot for the length plus
// the ValueBytes of every element. The result is memoized in the buffer.
func ListSizeOf(l *List) int {
	if l.memo != 0 {
		return l.memo
	}
	size := SlotBytes
	for _, v := range l.elems {
		size += ValueBytes(v)
	}
	if l != emptyList {
		l.memo = size
	}
	return size
}

// ---------------------------------------------------------------------------
// Set operations
// ---------------------------------------------------------------------------

// SetAdd appends value unless list already contains it, in which case value
// is released and list is returned unchanged. Consumes list and value.
func SetAdd(list, value Value) Value {
	if IsMember(value, list, false) != 0 {
		Release(value)
		return list
	}
	return ListAppend(list, value)
}

// SetRemove deletes the first element equal to value. Consumes list; value
// is borrowed.
func SetRemove(list, value Value) Value {
	if i := IsMember(value, list, false); i != 0 {
		return ListDelete(list, i)
	}
	return list
}
