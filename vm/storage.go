package vm

// ---------------------------------------------------------------------------
// Reference counting
// ---------------------------------------------------------------------------

// HeapCounts reports how many heap objects of each kind are live.
// A list handed to a Collector stays counted until the collector frees it.
type HeapCounts struct {
	Lists   int
	Strings int
	Maps    int
	Anons   int
}

var heap HeapCounts

// HeapStats returns the current live heap object counts.
func HeapStats() HeapCounts {
	return heap
}

// Ref takes a new reference to v and returns it.
// Scalars are returned unchanged.
func Ref(v Value) Value {
	if v.obj != nil {
		v.obj.hdr().refs++
	}
	return v
}

// Refcount returns the reference count of v's heap object, or 0 for scalars.
func Refcount(v Value) int {
	if v.obj == nil {
		return 0
	}
	return v.obj.hdr().refs
}

// Release drops one reference to v. When the count reaches zero the object's
// children are released in turn. List buffers are handed to the installed
// Collector for final reclamation, since a list may be the root of a cycle;
// a list that survives the decrement is reported as a possible cycle root.
func Release(v Value) {
	if v.obj == nil {
		return
	}
	h := v.obj.hdr()
	if h.refs <= 0 {
		panic("Release: reference count underflow")
	}
	h.refs--

	switch o := v.obj.(type) {
	case *List:
		if h.refs == 0 {
			destroyList(o)
		} else {
			possibleRoot(o)
		}
	case *Map:
		if h.refs == 0 {
			destroyMap(o)
		}
	case *String:
		if h.refs == 0 {
			heap.Strings--
		}
	case *Anon:
		if h.refs == 0 {
			heap.Anons--
		}
	}
}

// releaseAll releases every value in vals.
func releaseAll(vals []Value) {
	for _, v := range vals {
		Release(v)
	}
}

// refCopy copies src into dst, taking a reference to each element.
func refCopy(dst, src []Value) {
	for i, v := range src {
		dst[i] = Ref(v)
	}
}
